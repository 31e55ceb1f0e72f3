package crud

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/domain"
)

// ReplaceLinks sets the many-to-many association of owner to the live
// records of A with ids. Unknown or deleted ids fail with a validation
// error naming label; an empty ids clears the association.
func ReplaceLinks[A any](ctx context.Context, tx *gorm.DB, owner any, association, label string, ids []uint) error {
	ids = uniqueIDs(ids)
	db := tx.WithContext(ctx)

	var targets []A
	if len(ids) > 0 {
		if err := db.Where("id IN ? AND is_deleted = ?", ids, false).Find(&targets).Error; err != nil {
			return err
		}
		if len(targets) != len(ids) {
			return domain.NewAppError(domain.CodeValidation,
				fmt.Sprintf("%d of %d %s id(s) do not exist", len(ids)-len(targets), len(ids), label), nil)
		}
	}

	assoc := db.Model(owner).Association(association)
	if len(targets) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(targets)
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
