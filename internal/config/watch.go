package config

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// ChangeListener は設定ファイルの再読み込み後に呼ばれます。
type ChangeListener func(*Config)

// Watch は設定ファイルを監視し、変更のたびに再読み込みして listener に渡します。
// 再読み込みや検証に失敗した変更は無視してログに残します。
func Watch(path string, listener ChangeListener) error {
	if path == "" {
		return fmt.Errorf("config path is required for watching")
	}
	if listener == nil {
		return fmt.Errorf("listener is required")
	}
	v, err := newViper(path)
	if err != nil {
		return err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			slog.Error("設定の再読み込みに失敗しました", "file", evt.Name, "error", err)
			return
		}
		slog.Info("設定を再読み込みしました", "file", evt.Name, "op", evt.Op.String())
		listener(cfg)
	})
	v.WatchConfig()
	return nil
}
