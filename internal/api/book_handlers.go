package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wishlistapp/wishlist-server/internal/domain"
	"github.com/wishlistapp/wishlist-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/books",
		Summary:     "List books",
		Description: "Returns the full wishlist ordered by title",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/books/{id}",
		Summary:     "Get book",
		Description: "Returns a wishlist entry by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/books",
		Summary:     "Add book",
		Description: "Adds a book to the wishlist; the server assigns the ID",
		Tags:        []string{"Books"},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/books/{id}",
		Summary:     "Update book",
		Description: "Applies a partial update to a wishlist entry",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the wishlist",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookListOutput wraps the book list for Huma.
type BookListOutput struct {
	Body []*domain.Book
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// GetBookInput contains parameters for fetching a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Title             string   `json:"title" validate:"required,max=500" doc:"Book title"`
	Author            string   `json:"author" validate:"required,max=500" doc:"Author name"`
	Tags              []string `json:"tags,omitempty" doc:"Tag names; existing tags are reused"`
	NarratorRating    *float64 `json:"narratorRating,omitempty" validate:"omitempty,gte=0,lte=5" doc:"Narrator rating 0-5"`
	PerformanceRating *float64 `json:"performanceRating,omitempty" validate:"omitempty,gte=0,lte=5" doc:"Performance rating 0-5"`
	Description       string   `json:"description,omitempty" doc:"Description (markdown)"`
	CoverImageURL     string   `json:"coverImageUrl,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	AudibleURL        string   `json:"audibleUrl,omitempty" validate:"omitempty,url" doc:"Audible product URL"`
	QueuePosition     *int     `json:"queuePosition,omitempty" doc:"Position in the next queue"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// UpdateBookRequest is the request body for updating a book.
// Absent fields are left unchanged.
type UpdateBookRequest struct {
	Title             *string   `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Book title"`
	Author            *string   `json:"author,omitempty" validate:"omitempty,min=1,max=500" doc:"Author name"`
	Tags              *[]string `json:"tags,omitempty" doc:"Replacement tag name set"`
	NarratorRating    *float64  `json:"narratorRating,omitempty" validate:"omitempty,gte=0,lte=5" doc:"Narrator rating 0-5"`
	PerformanceRating *float64  `json:"performanceRating,omitempty" validate:"omitempty,gte=0,lte=5" doc:"Performance rating 0-5"`
	Description       *string   `json:"description,omitempty" doc:"Description (markdown)"`
	CoverImageURL     *string   `json:"coverImageUrl,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	AudibleURL        *string   `json:"audibleUrl,omitempty" validate:"omitempty,url" doc:"Audible product URL"`
	QueuePosition     *int      `json:"queuePosition,omitempty" doc:"Position in the next queue"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.services.Books.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return &BookListOutput{Body: books}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Books.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Books.Create(ctx, service.CreateBookInput{
		Title:             input.Body.Title,
		Author:            input.Body.Author,
		Tags:              input.Body.Tags,
		NarratorRating:    input.Body.NarratorRating,
		PerformanceRating: input.Body.PerformanceRating,
		Description:       input.Body.Description,
		CoverImageURL:     input.Body.CoverImageURL,
		AudibleURL:        input.Body.AudibleURL,
		QueuePosition:     input.Body.QueuePosition,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Books.Update(ctx, input.ID, service.UpdateBookInput{
		Title:             input.Body.Title,
		Author:            input.Body.Author,
		Tags:              input.Body.Tags,
		NarratorRating:    input.Body.NarratorRating,
		PerformanceRating: input.Body.PerformanceRating,
		Description:       input.Body.Description,
		CoverImageURL:     input.Body.CoverImageURL,
		AudibleURL:        input.Body.AudibleURL,
		QueuePosition:     input.Body.QueuePosition,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	if err := s.services.Books.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}
