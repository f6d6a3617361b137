package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/lightd/docs.go -o docs`.
//
// @title           lightd API
// @version         1.0
// @description     HTTP control API for a multi-slot lighting panel synchronized with a rendering surface.
//
// @contact.name   lightd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
