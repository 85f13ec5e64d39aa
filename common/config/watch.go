package config

import (
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch re-reads the config whenever the file changes and hands the new
// instance to onReload. Parse failures keep the previous config in place.
func Watch(configPath string, onReload func(*MediaForgeConfig)) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logrus.Fatal(err)
	}

	err = watcher.Add(configPath)
	if err != nil {
		logrus.Fatal(err)
	}

	go func() {
		debounced := debounce.New(1 * time.Second)
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				debounced(func() {
					logrus.Info("Config file change detected - reloading")
					c, err := Load(configPath)
					if err != nil {
						logrus.Error("Error reloading configuration - ignoring")
						logrus.Error(err)
						return
					}
					onReload(c)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Error("error in config watcher:", err)
			}
		}
	}()

	return watcher
}
