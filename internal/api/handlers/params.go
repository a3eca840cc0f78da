package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// queryPagination parses skip/limit. Absent parameters take the defaults;
// out-of-range values are rejected, not clamped.
func queryPagination(c *gin.Context) (domain.Pagination, error) {
	skip, err := queryInt64(c, "skip")
	if err != nil {
		return domain.Pagination{}, err
	}
	limit, err := queryInt64(c, "limit")
	if err != nil {
		return domain.Pagination{}, err
	}
	return domain.NewPagination(skip, limit)
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.InvalidRequestf("%s must be an integer", name)
	}
	return &v, nil
}

// queryTargetFilter parses the targetType/targetValues pair. targetValues
// may repeat.
func queryTargetFilter(c *gin.Context) (*domain.TargetFilter, error) {
	return domain.NewTargetFilter(c.Query("targetType"), c.QueryArray("targetValues"))
}
