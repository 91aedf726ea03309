package main

import (
	"os"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/spf13/afero"
	"github.com/volumeguard/mount-evictor/pkg/config"
	"github.com/volumeguard/mount-evictor/pkg/evictor"
	evictorv1 "github.com/volumeguard/mount-evictor/pkg/evictor/v1"
	holderprobev1 "github.com/volumeguard/mount-evictor/pkg/holderprobe/v1"
	"github.com/volumeguard/mount-evictor/pkg/metricsmanager"
	metricprometheus "github.com/volumeguard/mount-evictor/pkg/metricsmanager/prometheus"
	unmounterv1 "github.com/volumeguard/mount-evictor/pkg/unmounter/v1"
	"github.com/volumeguard/mount-evictor/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		logger.L().Error("usage: mount-evictor <mount-point> [warn|term|kill]")
		os.Exit(utils.ExitCodeError)
	}
	mountPoint := os.Args[1]

	configDir := "/etc/config"
	if envPath := os.Getenv(config.ConfigDirEnvVar); envPath != "" {
		configDir = envPath
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		logger.L().Fatal("load config error", helpers.Error(err))
	}

	var metrics metricsmanager.MetricsManager
	if cfg.EnablePrometheusExporter {
		metrics = metricprometheus.NewPrometheusMetric()
	} else {
		metrics = metricsmanager.NewMetricsMock()
	}
	metrics.Start()
	defer metrics.Destroy()

	probe := holderprobev1.NewHolderProbe(afero.NewOsFs(), cfg.ProcDir, metrics)
	holderEvictor := evictorv1.NewHolderEvictor(cfg.ProcDir, probe, metrics)

	// with an explicit action, run a single advisory eviction pass and leave
	// the unmount to the caller
	if len(os.Args) > 2 {
		action, err := evictor.ParseAction(os.Args[2])
		if err != nil {
			logger.L().Fatal("invalid action", helpers.Error(err))
		}
		holderEvictor.EvictHolders(mountPoint, action)
		return
	}

	mountUnmounter := unmounterv1.NewMountUnmounter(holderEvictor, metrics, cfg)
	if err := mountUnmounter.Unmount(mountPoint); err != nil {
		logger.L().Error("failed to release mount point", helpers.String("mountPoint", mountPoint), helpers.Error(err))
		os.Exit(utils.ExitCodeError)
	}
}
