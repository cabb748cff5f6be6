package repositories

import (
	"context"
	"fmt"
)

// recomputeModuleDuration resets a module's duration to the sum of its videos'
// durations, in whole minutes
func recomputeModuleDuration(ctx context.Context, q dbtx, moduleID int) error {
	query := `
		UPDATE topic_modules
		SET duration_minutes = (
			SELECT COALESCE(SUM(duration_seconds), 0) DIV 60
			FROM topic_videos
			WHERE module_id = ?
		)
		WHERE id = ?
	`

	if _, err := q.ExecContext(ctx, query, moduleID, moduleID); err != nil {
		return fmt.Errorf("failed to recompute module duration: %w", err)
	}

	return nil
}

// recomputeTopicDuration resets a topic's duration to the sum of its modules' durations
func recomputeTopicDuration(ctx context.Context, q dbtx, topicID int) error {
	query := `
		UPDATE topics
		SET duration_minutes = (
			SELECT COALESCE(SUM(duration_minutes), 0)
			FROM topic_modules
			WHERE topic_id = ?
		)
		WHERE id = ?
	`

	if _, err := q.ExecContext(ctx, query, topicID, topicID); err != nil {
		return fmt.Errorf("failed to recompute topic duration: %w", err)
	}

	return nil
}

// recomputeAllModuleDurations recomputes every module duration under a topic,
// then the topic's own duration
func recomputeAllModuleDurations(ctx context.Context, q dbtx, topicID int) error {
	query := `
		UPDATE topic_modules
		SET duration_minutes = (
			SELECT COALESCE(SUM(duration_seconds), 0) DIV 60
			FROM topic_videos
			WHERE topic_videos.module_id = topic_modules.id
		)
		WHERE topic_id = ?
	`

	if _, err := q.ExecContext(ctx, query, topicID); err != nil {
		return fmt.Errorf("failed to recompute module durations: %w", err)
	}

	return recomputeTopicDuration(ctx, q, topicID)
}
