package main

// @title Inventory Service API
// @version 1.0
// @description Product registry and batch registration workflow with full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8082
// @BasePath /

// @tag.name Products
// @tag.description Product registry endpoints

// @tag.name Batches
// @tag.description Batch registration endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
