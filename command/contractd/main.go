// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/contractd/background"
	"github.com/bitmark-inc/contractd/blockheight"
	"github.com/bitmark-inc/contractd/contractdb"
	"github.com/bitmark-inc/contractd/storage"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// one data source per chain
	contracts := theConfiguration.contracts()
	log.Infof("contract state: %q", contracts.RootPath())

	dataSources := make([]*contractdb.DataSource, 0, len(theConfiguration.Chains))
	for _, id := range theConfiguration.chainIDs() {
		ds, err := contractdb.New(id, contracts)
		if nil != err {
			log.Criticalf("chain: %s  data source error: %s", id, err)
			exitwithstatus.Message("chain: %s  data source error: %s", id, err)
		}

		log.Infof("initialise chain: %s", id)
		if err := ds.Init(); nil != err {
			log.Criticalf("chain: %s  initialise error: %s", id, err)
			exitwithstatus.Message("chain: %s  initialise error: %s", id, err)
		}
		defer ds.Close()

		if status := ds.Migration(); status.LegacyPresent && !status.Completed {
			log.Warnf("%s: legacy table present, migration disabled", ds.Name())
		}
		dataSources = append(dataSources, ds)
	}

	// last processed block of each chain
	blocks, err := storage.Open(theConfiguration.blocksDirectory(), theConfiguration.Storage)
	if nil != err {
		log.Criticalf("block height storage error: %s", err)
		exitwithstatus.Message("block height storage error: %s", err)
	}
	defer blocks.Close()

	heights, err := blockheight.New(blocks)
	if nil != err {
		log.Criticalf("block height initialise error: %s", err)
		exitwithstatus.Message("block height initialise error: %s", err)
	}
	for _, id := range theConfiguration.chainIDs() {
		b, err := heights.Get(id)
		if nil != err {
			log.Errorf("chain: %s  block height error: %s", id, err)
		} else if nil == b {
			log.Infof("chain: %s  no block height recorded", id)
		} else {
			log.Infof("chain: %s  block height: %s", id, b)
		}
	}

	// background processes
	reporter := newStatsReporter(theConfiguration.statsInterval(), len(options["memory-stats"]) > 0, dataSources)
	processes := background.Start(background.Processes{reporter}, nil)
	defer processes.Stop()

	// reload the error policy when the configuration changes
	channel := WatcherChannel{
		change: make(chan struct{}, 1),
		remove: make(chan struct{}, 1),
	}
	watcher, err := newFileWatcher(configurationFile, logger.New("watcher"), channel)
	if nil != err {
		log.Criticalf("configuration watcher error: %s", err)
		exitwithstatus.Message("configuration watcher error: %s", err)
	}
	if err := watcher.Start(); nil != err {
		log.Criticalf("configuration watcher start error: %s", err)
		exitwithstatus.Message("configuration watcher start error: %s", err)
	}
	defer watcher.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

wait:
	for {
		select {
		case sig := <-ch:
			log.Infof("received signal: %v", sig)
			if 0 == len(options["quiet"]) {
				fmt.Printf("\nreceived signal: %v\n", sig)
				fmt.Printf("\nshutting down…\n")
			}
			break wait

		case <-channel.change:
			reloadErrorPolicy(log, configurationFile, dataSources)

		case <-channel.remove:
			log.Warnf("configuration file: %q removed, keeping current settings", configurationFile)
		}
	}

	log.Info("shutting down…")
}

// apply a changed error_policy, other settings need a restart
func reloadErrorPolicy(log *logger.L, configurationFile string, dataSources []*contractdb.DataSource) {
	newConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		log.Errorf("reload configuration: %q  error: %s", configurationFile, err)
		return
	}

	policy, err := contractdb.ParseErrorPolicy(newConfiguration.ErrorPolicy)
	if nil != err {
		log.Errorf("reload error policy: %q  error: %s", newConfiguration.ErrorPolicy, err)
		return
	}

	for _, ds := range dataSources {
		ds.SetErrorPolicy(policy)
	}
	log.Infof("error policy: %s", policy)
}
