package backend

import (
	"fmt"

	"quanly/internal/config"
)

// FromAppConfig maps the env-driven application config onto a backend
// Config.
func FromAppConfig(appCfg *config.Config) (Config, error) {
	if appCfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	bt := BackendType(appCfg.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("unknown data backend %q", appCfg.DataBackend)
	}
	return Config{
		Type:                bt,
		SQLiteDBPath:        appCfg.SQLiteDBPath,
		AMQPURL:             appCfg.AMQPURL,
		AMQPExchange:        appCfg.AMQPExchange,
		AMQPQueue:           appCfg.AMQPQueue,
		GoogleSpreadsheetID: appCfg.GoogleSpreadsheetID,
		GoogleSheetName:     appCfg.GoogleSheetName,
	}, nil
}
