package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/notifyd/docs.go -o docs`.
//
// @title           notifyd API
// @version         1.0
// @description     Record registry that notifies subscribed observers over webhooks on every change.
//
// @contact.name   notifyd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
