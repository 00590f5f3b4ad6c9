package cli

// Indirection layer to allow stubbing in tests

var (
	fnServe  = serve
	fnListen = listen
)
