package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// PageResponse carries one page of a larger result; Total counts every row
// matching the filters.
type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Page[T any](c *gin.Context, data []T, p Paging, total int64) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Data:  data,
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	})
}

// Paging is read from ?page and ?limit. Out of range values fall back to
// page 1 and defaultLimit.
type Paging struct {
	Page  int
	Limit int
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ParsePaging(c *gin.Context, defaultLimit, maxLimit int) Paging {
	p := Paging{Page: 1, Limit: defaultLimit}

	var q struct {
		Page  int `form:"page"`
		Limit int `form:"limit"`
	}
	_ = c.ShouldBindQuery(&q)

	if q.Page > 0 {
		p.Page = q.Page
	}
	if q.Limit > 0 && q.Limit <= maxLimit {
		p.Limit = q.Limit
	}
	return p
}
