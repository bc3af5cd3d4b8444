package main

import (
	"fmt"
	"os"

	"github.com/waltherrera/Social-Media-Database/analysis"
	"github.com/waltherrera/Social-Media-Database/config"
	"github.com/waltherrera/Social-Media-Database/dao/migrate"
	"github.com/waltherrera/Social-Media-Database/dao/query"
	"github.com/waltherrera/Social-Media-Database/logutils"
	"github.com/waltherrera/Social-Media-Database/metrics"
	"github.com/waltherrera/Social-Media-Database/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.GetConfig()
	if err := logutils.Configure(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Println("err init log:", err)
		os.Exit(1)
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	err := query.InitDB(cfg)
	if err != nil {
		fmt.Println("err init:", err)
		os.Exit(1)
	}
	if err = migrate.Run(query.DB); err != nil {
		logutils.Log.Fatal(err)
	}

	m := metrics.New()
	h := service.NewHandler(analysis.NewService(query.DB), m)
	r := service.NewRouter(cfg, h, m)

	logutils.Log.WithField("addr", cfg.Server.Addr).Info("listening")
	if err = r.Run(cfg.Server.Addr); err != nil {
		logutils.Log.Fatal(err)
	}
}
