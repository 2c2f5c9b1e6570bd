package api

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"imageshare.com/internal/domain"
)

// Pagination metadata
type Pagination struct {
	Page      int   `json:"Page"`
	PageSize  int   `json:"PageSize"`
	Total     int64 `json:"Total"`
	TotalPage int   `json:"TotalPage"`
}

// ListResponse is the uniform paginated response shape
type ListResponse struct {
	Data       interface{} `json:"Data"`
	Pagination Pagination  `json:"Pagination"`
}

// SendPaginatedResponse sends the standard paginated envelope
func SendPaginatedResponse(c *fiber.Ctx, data interface{}, page, pageSize int, total int64) error {
	totalPage := 0
	if pageSize > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return c.JSON(ListResponse{
		Data: data,
		Pagination: Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: totalPage,
		},
	})
}

// SendError maps a service error onto an HTTP response. AppErrors carry
// their own status code; anything else is a 500.
func SendError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		body := fiber.Map{"Error": appErr.Message}
		if appErr.Reason != "" {
			body["Reason"] = appErr.Reason
		}
		return c.Status(appErr.Code).JSON(body)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Internal server error"})
}

// ParsePagination reads page/pageSize query params with sane bounds
func ParsePagination(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "50"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}
	return page, pageSize
}
