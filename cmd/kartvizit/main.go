package main

import (
	"os"

	"kartvizit.link/configs/configslog"
)

func main() {
	defer configslog.SyncLogger()
	if err := newRootCmd().Execute(); err != nil {
		configslog.SLog.Errorf("Komut başarısız: %v", err)
		configslog.SyncLogger()
		os.Exit(1)
	}
}
