package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"apk-recon/internal/config"
	"apk-recon/internal/linker"
	"apk-recon/internal/logger"
	"apk-recon/internal/model"
	"apk-recon/internal/program"
	"apk-recon/internal/resources"
)

// loadModel opens the program model at path: a dump file, or a directory of
// decompiled sources that is parsed and linked.
func loadModel(path string, cfg *config.Config, tick func()) (*program.Memory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("program model not found: %w", err)
	}

	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json":
		default:
			return nil, fmt.Errorf("%w: unsupported model file %s", program.ErrIncompatibleModel, filepath.Base(path))
		}
		mem, err := program.LoadFile(path)
		if err != nil {
			return nil, err
		}
		tick()
		logger.Info("Loaded model dump with %d classes", mem.Len())
		return mem, nil
	}

	mem, stats, err := linker.LoadSources(path, linker.SourceOptions{
		Workers: cfg.Analysis.Workers,
		Exclude: cfg.ShouldExclude,
		OnFile:  tick,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Parsed %d source files into %d classes", stats.Files, stats.Classes)
	if stats.Duplicates > 0 {
		logger.Warn("%d duplicate class declarations ignored", stats.Duplicates)
	}
	return mem, nil
}

// loadDocuments reads the XML resources: the decoded resources directory
// when one is configured, the APK otherwise.
func loadDocuments(cfg *config.Config, tick func()) (*resources.Set, error) {
	l := &resources.Loader{
		Workers: cfg.Analysis.Workers,
		Exclude: cfg.ShouldExclude,
		OnFile:  tick,
	}

	var (
		set *resources.Set
		err error
	)
	if cfg.Input.Resources != "" {
		set, err = l.LoadDir(cfg.Input.Resources)
	} else {
		set, err = l.LoadAPK(cfg.Input.APK)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Parsed %d XML documents", len(set.Documents))
	return set, nil
}

// appInfo reads the manifest of the configured APK. Failures only cost
// the report header, so they are logged and ignored.
func appInfo(cfg *config.Config) model.AppInfo {
	if cfg.Input.APK == "" {
		return model.AppInfo{}
	}
	info, err := resources.ReadAppInfo(cfg.Input.APK)
	if err != nil {
		logger.Warn("Could not read APK manifest: %v", err)
		return model.AppInfo{}
	}
	logger.Info("Application: %s %s (%d)", info.PackageName, info.VersionName, info.VersionCode)
	return info
}
