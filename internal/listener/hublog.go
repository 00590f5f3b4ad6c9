package listener

import "github.com/rs/zerolog"

// hubLogger satisfies pubsub.Logger on top of zerolog.
type hubLogger struct{ log zerolog.Logger }

func (h hubLogger) Errorf(format string, args ...interface{})   { h.log.Error().Msgf(format, args...) }
func (h hubLogger) Warningf(format string, args ...interface{}) { h.log.Warn().Msgf(format, args...) }
func (h hubLogger) Infof(format string, args ...interface{})    { h.log.Info().Msgf(format, args...) }
func (h hubLogger) Debugf(format string, args ...interface{})   { h.log.Debug().Msgf(format, args...) }
func (h hubLogger) Tracef(format string, args ...interface{})   { h.log.Trace().Msgf(format, args...) }
