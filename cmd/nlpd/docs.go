package main

// General API documentation for swaggo. Regenerate docs/ with
// `swag init -g cmd/nlpd/docs.go -o docs`.
//
// @title           nlpd API
// @version         1.0
// @description     Text analysis models served by dedicated worker threads.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
