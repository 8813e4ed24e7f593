package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
)

// itemTable maps an item kind to its storage table
type itemTable struct {
	name          string
	payloadColumn string
}

// itemTables is the closed registry of item kinds a content row may reference
var itemTables = map[models.ItemKind]itemTable{
	models.ItemKindText:  {name: "texts", payloadColumn: "content"},
	models.ItemKindFile:  {name: "files", payloadColumn: "file"},
	models.ItemKindImage: {name: "images", payloadColumn: "file"},
	models.ItemKindVideo: {name: "videos", payloadColumn: "url"},
}

func tableFor(kind models.ItemKind) (itemTable, error) {
	table, ok := itemTables[kind]
	if !ok {
		return itemTable{}, fmt.Errorf("%w: %q", models.ErrInvalidKind, kind)
	}
	return table, nil
}

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB) *itemRepository {
	return &itemRepository{
		db: db,
	}
}

// Create inserts an item into the table of its kind and sets its ID and timestamps
func (r *itemRepository) Create(ctx context.Context, item models.Item) error {
	table, err := tableFor(item.Kind())
	if err != nil {
		return err
	}

	base := item.Base()
	now := time.Now().UTC().Truncate(time.Second)
	base.Created = now
	base.Updated = now

	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, %s, created, updated)
		VALUES (?, ?, ?, ?, ?)
	`, table.name, table.payloadColumn)

	result, err := r.db.ExecContext(ctx, query,
		base.OwnerID,
		base.Title,
		item.Payload(),
		base.Created,
		base.Updated,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s item: %w", item.Kind(), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	base.ID = int(id)
	return nil
}

// GetByRef loads the item identified by a (kind, id) reference
func (r *itemRepository) GetByRef(ctx context.Context, kind models.ItemKind, id int) (models.Item, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	item, err := models.NewItem(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, title, %s, created, updated
		FROM %s
		WHERE id = ?
		LIMIT 1
	`, table.payloadColumn, table.name)

	base := item.Base()
	var payload string
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&base.ID,
		&base.OwnerID,
		&base.Title,
		&payload,
		&base.Created,
		&base.Updated,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s item %w", kind, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s item by id: %w", kind, err)
	}

	item.SetPayload(payload)
	return item, nil
}

// Update saves the title and payload of an existing item and refreshes its updated time
func (r *itemRepository) Update(ctx context.Context, item models.Item) error {
	table, err := tableFor(item.Kind())
	if err != nil {
		return err
	}

	base := item.Base()
	base.Updated = time.Now().UTC().Truncate(time.Second)

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = ?, %s = ?, updated = ?
		WHERE id = ?
	`, table.name, table.payloadColumn)

	result, err := r.db.ExecContext(ctx, query, base.Title, item.Payload(), base.Updated, base.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s item: %w", item.Kind(), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s item %w", item.Kind(), models.ErrNotFound)
	}

	return nil
}

// Delete deletes the item identified by a (kind, id) reference
func (r *itemRepository) Delete(ctx context.Context, kind models.ItemKind, id int) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table.name)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s item: %w", kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s item %w", kind, models.ErrNotFound)
	}

	return nil
}
