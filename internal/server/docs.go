package server

// @title Demoforge API
// @version 1.0
// @description Local dashboard API for managing demo storefront projects

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http
