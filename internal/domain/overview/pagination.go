package overview

import (
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// Default paging values applied when the caller omits them.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Pagination describes where a page sits in the full sorted list.
// Field names are part of the wire contract shared with clients.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// PageResult is one page of the skill board.
type PageResult struct {
	Skills     []SkillAggregate `json:"skills"`
	Pagination Pagination       `json:"pagination"`
}

// NewPagination вычисляет метаданные страницы. TotalPages не меньше 1.
// Запрошенная страница не ограничивается сверху.
func NewPagination(page, pageSize, totalItems int) (Pagination, error) {
	if page <= 0 {
		return Pagination{}, shared.ErrInvalidPage
	}
	if pageSize <= 0 {
		return Pagination{}, shared.ErrInvalidPageSize
	}

	totalPages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// SortAndPaginate сортирует aggs по интересу и возвращает нужную страницу.
// Для страницы за пределами списка Skills пустой, TotalPages настоящий.
// aggs сортируется на месте.
func SortAndPaginate(aggs []SkillAggregate, page, pageSize int) (PageResult, error) {
	meta, err := NewPagination(page, pageSize, len(aggs))
	if err != nil {
		return PageResult{}, err
	}

	SortByInterest(aggs)

	// Сравниваем номера страниц до умножения, иначе огромные page или limit
	// переполняют смещение.
	skills := []SkillAggregate{}
	if len(aggs) > 0 && page-1 <= (len(aggs)-1)/pageSize {
		start := (page - 1) * pageSize
		skills = aggs[start : start+min(pageSize, len(aggs)-start)]
	}

	return PageResult{Skills: skills, Pagination: meta}, nil
}
