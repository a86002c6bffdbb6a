// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package viper provides a wrapper for the https://github.com/spf13/viper package.
// It offers a different callback function, to get access to the viper instance.
// By default, the watcher will automatically unmarshal the data of the defined configuration struct.
// An optional dotenv file is loaded into the process environment before the configuration is read.
package viper

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/patrickascher/schemer/config"
	"github.com/patrickascher/schemer/registry"
	"github.com/spf13/viper"
)

// init registers the viper provider.
func init() {
	err := registry.Set(config.VIPER, new(viperProvider))
	if err != nil {
		log.Fatal(err)
	}
}

// Error messages
var (
	ErrOptions   = errors.New("viper-provider: options must be of type viper.Options")
	ErrMandatory = errors.New("viper-provider: viper.Options file-name, path and type are mandatory")
)

// Options for the viper provider.
type Options struct {
	// FileName of the configuration.
	FileName string
	// FileType optional if the filename has no extension.
	FileType string
	// FilePath to look into.
	FilePath string
	// Watch for file changes.
	Watch bool
	// WatchCallback can be defined.
	// By default, the config struct gets updated on changes.
	WatchCallback func(cfg interface{}, viper *viper.Viper, e fsnotify.Event)
	// EnvFile is loaded with godotenv before parsing. Existing variables are not overwritten.
	EnvFile string
	// EnvPrefix
	EnvPrefix string
	// EnvAutomatic check if environment variables match any of the existing keys.
	EnvAutomatic bool
	// EnvBind binds a Viper key to a ENV variable.
	EnvBind []string
}

// vInstances of vipers, keyed by the absolute file path.
// The watch callback only receives the file name, so the instance is looked up here.
var (
	vMu        sync.Mutex
	vInstances map[string]vInstance
)

type vInstance struct {
	viper   *viper.Viper
	cfg     interface{}
	options Options
}

type viperProvider struct{}

// Parse will configure viper and unmarshal the config into the config struct.
// Filename, path and type are mandatory.
func (vp *viperProvider) Parse(cfg interface{}, opt interface{}) error {
	options, ok := opt.(Options)
	if !ok {
		return ErrOptions
	}

	if options.FileName == "" || options.FilePath == "" || options.FileType == "" {
		return ErrMandatory
	}

	if options.EnvFile != "" {
		if err := godotenv.Load(options.EnvFile); err != nil {
			return fmt.Errorf("viper-provider: %w", err)
		}
	}

	i, err := instance(cfg, options)
	if err != nil {
		return fmt.Errorf("viper-provider: %w", err)
	}

	i.viper.SetConfigName(options.FileName)
	i.viper.AddConfigPath(options.FilePath)
	i.viper.SetConfigType(options.FileType)

	i.viper.OnConfigChange(func(e fsnotify.Event) {
		vMu.Lock()
		i, ok := vInstances[e.Name]
		vMu.Unlock()
		if !ok {
			return
		}
		_ = i.viper.Unmarshal(i.cfg)
		if i.options.WatchCallback != nil {
			i.options.WatchCallback(i.cfg, i.viper, e)
		}
	})

	if options.Watch {
		i.viper.WatchConfig()
	}

	if options.EnvPrefix != "" {
		i.viper.SetEnvPrefix(options.EnvPrefix)
	}

	if len(options.EnvBind) != 0 {
		_ = i.viper.BindEnv(options.EnvBind...)
	}

	if options.EnvAutomatic {
		i.viper.AutomaticEnv()
	}

	if err = i.viper.ReadInConfig(); err != nil {
		return err
	}

	return i.viper.Unmarshal(cfg)
}

// instance returns the viper instance for the file path.
// On a repeated call, the cfg and options are re-assigned.
func instance(cfg interface{}, opt Options) (vInstance, error) {
	name, err := filepath.Abs(filepath.Join(opt.FilePath, opt.FileName))
	if err != nil {
		return vInstance{}, err
	}
	if _, err = os.Stat(name); err != nil {
		return vInstance{}, err
	}

	vMu.Lock()
	defer vMu.Unlock()

	if vInstances == nil {
		vInstances = make(map[string]vInstance)
	}

	v, ok := vInstances[name]
	if !ok {
		v = vInstance{viper: viper.New()}
	}
	v.cfg = cfg
	v.options = opt
	vInstances[name] = v

	return v, nil
}
