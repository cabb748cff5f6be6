package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// Create inserts a topic together with its nested modules and videos in one
// transaction, then rolls durations up onto module and topic rows.
func (r *topicRepository) Create(ctx context.Context, topic *models.Topic, modules []models.ModuleInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tagsJSON, err := json.Marshal(topic.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode topic tags: %w", err)
	}

	query := `
		INSERT INTO topics (title, slug, description, category_id, subcategory_id, difficulty,
			status, is_featured, is_free, price, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		topic.Title, topic.Slug, topic.Description, topic.CategoryID, topic.SubcategoryID,
		topic.Difficulty, topic.Status, topic.IsFeatured, topic.IsFree, topic.Price, string(tagsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	topic.ID = int(id)

	for i, module := range modules {
		if _, err := insertModule(ctx, tx, topic.ID, module, i+1); err != nil {
			return err
		}
	}

	if len(modules) > 0 {
		if err := recomputeAllModuleDurations(ctx, tx, topic.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ReconcileModules reconciles the persisted module/video rows of a topic against
// the desired-state payload, inside one transaction:
//   - entries whose id resolves to an existing row are updated in place
//   - entries with no usable id are inserted
//   - persisted rows absent from the payload are deleted
//
// Durations are recomputed from the surviving videos before commit.
func (r *topicRepository) ReconcileModules(ctx context.Context, topicID int, modules []models.ModuleInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := moduleIDsByTopic(ctx, tx, topicID)
	if err != nil {
		return err
	}

	keep := make(map[int]bool, len(modules))
	for i, module := range modules {
		orderIndex := i + 1
		if module.Order != nil {
			orderIndex = *module.Order
		}

		moduleID := module.ID.Int()
		if !module.ID.IsNew() && existing[moduleID] {
			if err := updateModuleRow(ctx, tx, moduleID, module, orderIndex); err != nil {
				return err
			}
			if err := reconcileVideos(ctx, tx, topicID, moduleID, module.Videos); err != nil {
				return err
			}
			keep[moduleID] = true
			continue
		}

		// New entry: placeholder, absent or stale id
		newID, err := insertModule(ctx, tx, topicID, module, orderIndex)
		if err != nil {
			return err
		}
		keep[newID] = true
	}

	// The payload is the full desired child set: delete what it no longer names
	for id := range existing {
		if keep[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM topic_modules WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete module %d: %w", id, err)
		}
	}

	if err := recomputeAllModuleDurations(ctx, tx, topicID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// moduleIDsByTopic returns the set of persisted module ids for a topic
func moduleIDsByTopic(ctx context.Context, q dbtx, topicID int) (map[int]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM topic_modules WHERE topic_id = ?`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query module ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan module id: %w", err)
		}
		ids[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// insertModule inserts a module and its nested videos, returning the new module id
func insertModule(ctx context.Context, tx *sql.Tx, topicID int, module models.ModuleInput, orderIndex int) (int, error) {
	if module.Order != nil {
		orderIndex = *module.Order
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO topic_modules (topic_id, title, description, order_index)
		VALUES (?, ?, ?, ?)
	`, topicID, module.Title, module.Description, orderIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	moduleID := int(id)

	for i, video := range module.Videos {
		if err := insertVideo(ctx, tx, topicID, moduleID, video, i+1); err != nil {
			return 0, err
		}
	}

	return moduleID, nil
}

// updateModuleRow updates a matched existing module in place
func updateModuleRow(ctx context.Context, tx *sql.Tx, moduleID int, module models.ModuleInput, orderIndex int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE topic_modules
		SET title = ?, description = ?, order_index = ?
		WHERE id = ?
	`, module.Title, module.Description, orderIndex, moduleID)
	if err != nil {
		return fmt.Errorf("failed to update module %d: %w", moduleID, err)
	}

	return nil
}

// reconcileVideos applies the same desired-state reconciliation to a module's videos
func reconcileVideos(ctx context.Context, tx *sql.Tx, topicID, moduleID int, videos []models.VideoInput) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM topic_videos WHERE module_id = ?`, moduleID)
	if err != nil {
		return fmt.Errorf("failed to query video ids: %w", err)
	}

	existing := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan video id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating rows: %w", err)
	}
	rows.Close()

	keep := make(map[int]bool, len(videos))
	for i, video := range videos {
		orderIndex := i + 1
		if video.Order != nil {
			orderIndex = *video.Order
		}

		// The video_type column is an enum; an omitted value may not reach it as ''
		videoType := video.VideoType
		if videoType == "" {
			videoType = string(models.VideoTypeMP4)
		}

		videoID := video.ID.Int()
		if !video.ID.IsNew() && existing[videoID] {
			_, err := tx.ExecContext(ctx, `
				UPDATE topic_videos
				SET title = ?, description = ?, url = ?, video_type = ?, order_index = ?,
					duration_seconds = ?, upload_id = ?
				WHERE id = ?
			`, video.Title, video.Description, video.URL, videoType, orderIndex,
				video.DurationSeconds, video.UploadID, videoID)
			if err != nil {
				return fmt.Errorf("failed to update video %d: %w", videoID, err)
			}
			keep[videoID] = true
			continue
		}

		if err := insertVideo(ctx, tx, topicID, moduleID, video, orderIndex); err != nil {
			return err
		}
	}

	for id := range existing {
		if keep[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM topic_videos WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete video %d: %w", id, err)
		}
	}

	return nil
}

// insertVideo inserts one video row under a module
func insertVideo(ctx context.Context, tx *sql.Tx, topicID, moduleID int, video models.VideoInput, orderIndex int) error {
	if video.Order != nil {
		orderIndex = *video.Order
	}

	videoType := video.VideoType
	if videoType == "" {
		videoType = string(models.VideoTypeMP4)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO topic_videos (topic_id, module_id, title, description, url, video_type,
			order_index, duration_seconds, upload_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, topicID, moduleID, video.Title, video.Description, video.URL, videoType,
		orderIndex, video.DurationSeconds, video.UploadID)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}
