package db

import (
	"context"
	"fmt"
	"time"

	"github.com/didi/gendry/builder"
)

const settingsTableName = "settings_tab"

// SettingsDAO stores runtime settings as key/value rows.
type SettingsDAO struct {
	db QueryExecer
}

func NewSettingsDAO(db QueryExecer) *SettingsDAO {
	return &SettingsDAO{db: db}
}

// LoadAll returns every stored setting.
func (dao *SettingsDAO) LoadAll(ctx context.Context) (map[string]string, error) {
	where := map[string]interface{}{"_orderby": "setting_key asc"}
	query, args, err := builder.BuildSelect(settingsTableName, where, []string{"setting_key", "setting_value"})
	if err != nil {
		return nil, err
	}
	rows, err := dao.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan settings: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Put inserts the setting or updates it when the key already exists.
func (dao *SettingsDAO) Put(ctx context.Context, key, value string) error {
	now := time.Now().Unix()
	payload := []map[string]interface{}{{
		"setting_key":   key,
		"setting_value": value,
		"create_time":   now,
		"update_time":   now,
	}}
	insertSQL, insertArgs, err := builder.BuildInsert(settingsTableName, payload)
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		if !isUniqueConstraintError(err) {
			return fmt.Errorf("insert setting %s: %w", key, err)
		}
		updateSQL, updateArgs, err := builder.BuildUpdate(settingsTableName,
			map[string]interface{}{"setting_key": key},
			map[string]interface{}{
				"setting_value": value,
				"update_time":   now,
			},
		)
		if err != nil {
			return err
		}
		if _, err := dao.db.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("update setting %s: %w", key, err)
		}
	}
	return nil
}

// Delete removes the given keys.
func (dao *SettingsDAO) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	deleteSQL, args, err := builder.BuildDelete(settingsTableName, map[string]interface{}{"setting_key in": keys})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, deleteSQL, args...); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
