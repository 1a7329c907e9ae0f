package api

import (
	"strconv"

	"github.com/BhautikVekariya21/backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDParam parses a path parameter, aborting with 400 when it is not an ObjectID.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, badRequest("Invalid %s", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalObjectIDQuery parses a query parameter that may be absent.
func optionalObjectIDQuery(c *gin.Context, name string) (*primitive.ObjectID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		respondError(c, badRequest("Invalid %s", name))
		return nil, false
	}
	return &id, true
}

// pageQuery reads page and limit. Unparseable values fall back to the defaults.
func pageQuery(c *gin.Context) domain.PageRequest {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	return domain.NewPageRequest(page, limit)
}
