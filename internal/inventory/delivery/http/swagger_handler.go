package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for Inventory Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router) {
	router.PathPrefix("/swagger/").Handler(SwaggerHandler())
}

// SwaggerHandler serves the Swagger UI backed by the registered doc.json
func SwaggerHandler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
	)
}

// CreateProduct godoc
// @Summary Register a product
// @Description Register a new product under a unique name. The body may be a bare JSON string or an object with a name field.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{name=string} true "Product name"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *InventoryHandler) CreateProductDoc() {}

// ListProducts godoc
// @Summary List products
// @Description List products ordered by id, or look one up by exact name
// @Tags Products
// @Produce json
// @Param name query string false "Exact product name"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *InventoryHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Description Get a product with its running total quantity
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *InventoryHandler) GetProductDoc() {}

// ListBatches godoc
// @Summary List batches of a product
// @Description List the recorded batches of a product ordered by id
// @Tags Batches
// @Produce json
// @Param id path int true "Product ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id}/batches [get]
func (h *InventoryHandler) ListBatchesDoc() {}

// RecordEntry godoc
// @Summary Record a batch entry
// @Description Validate and record an incoming batch. The batch insert and the product total increment commit together.
// @Tags Batches
// @Accept json
// @Produce json
// @Param request body object{code=int,product_id=int,production_date=string,expiration_date=string,quantity=int} true "Batch data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/batches [post]
func (h *InventoryHandler) RecordEntryDoc() {}

// GetBatch godoc
// @Summary Get batch by ID
// @Tags Batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/batches/{id} [get]
func (h *InventoryHandler) GetBatchDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the service can reach its database
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
