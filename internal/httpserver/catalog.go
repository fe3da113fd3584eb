package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-api/internal/domain"
	catalogrepo "storefront-api/internal/repository/catalog"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load products"})
			return
		}
		if products == nil {
			products = []domain.ProductWithStoreInfo{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		product, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func storeLocationsHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		locations, err := repo.ListStoreLocations(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load store locations"})
			return
		}
		if locations == nil {
			locations = []domain.StoreLocation{}
		}
		c.JSON(http.StatusOK, gin.H{"locations": locations})
	}
}
