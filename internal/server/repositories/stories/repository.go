// Package stories reads the seeded story and hint records.
package stories

import (
	"context"

	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id int) (*models.Story, error)
	// ListUpTo returns stories 1..n ordered by id.
	ListUpTo(ctx context.Context, n int) ([]models.Story, error)
	Hint(ctx context.Context, storyID int) (*models.Hint, error)
}
