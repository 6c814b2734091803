// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/contractd/contractdb"
	"github.com/bitmark-inc/logger"
)

type metadata struct {
	directory string
	domain    string
	verbose   bool
	yes       bool
	e         io.Writer
	w         io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "contract-cli"
	app.Usage = "inspect and repair contract state tables"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	chainFlag := cli.UintFlag{
		Name:  "chain, n",
		Value: 1,
		Usage: " chain `ID`",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "directory, d",
			Value: "",
			Usage: "*database `DIRECTORY` (contains smart-contract/)",
		},
		cli.StringFlag{
			Name:  "domain",
			Value: contractdb.DefaultDomain,
			Usage: " table name prefix `DOMAIN`",
		},
		cli.BoolFlag{
			Name:  "yes, y",
			Usage: " do not ask for confirmation",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "tables",
			Usage:     "list the tables below the contracts directory",
			ArgsUsage: "\n   (* = required)",
			Action:    runTables,
		},
		{
			Name:      "get",
			Usage:     "read the value of a key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				chainFlag,
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*key in hex `KEY`",
				},
			},
			Action: runGet,
		},
		{
			Name:      "put",
			Usage:     "store a value under a key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				chainFlag,
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*key in hex `KEY`",
				},
				cli.StringFlag{
					Name:  "value, x",
					Value: "",
					Usage: " value in hex `VALUE`",
				},
			},
			Action: runPut,
		},
		{
			Name:      "delete",
			Usage:     "remove a key, asks for confirmation",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				chainFlag,
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*key in hex `KEY`",
				},
			},
			Action: runDelete,
		},
		{
			Name:      "dump",
			Usage:     "list rows of one shard table or the legacy table",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				chainFlag,
				cli.IntFlag{
					Name:  "shard, s",
					Value: -1,
					Usage: "+shard `INDEX`",
				},
				cli.BoolFlag{
					Name:  "legacy, l",
					Usage: "+the unsharded table",
				},
				cli.StringFlag{
					Name:  "start",
					Value: "",
					Usage: " first key in hex `KEY`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum rows `COUNT`",
				},
			},
			Action: runDump,
		},
		{
			Name:      "migrate",
			Usage:     "copy the legacy table into the shard tables",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				chainFlag,
				cli.BoolFlag{
					Name:  "overwrite, o",
					Usage: " replace rows already present in the shards",
				},
				cli.IntFlag{
					Name:  "rate, r",
					Value: 0,
					Usage: " rows per second, 0 = unlimited `RATE`",
				},
			},
			Action: runMigrate,
		},
		{
			Name:      "height",
			Usage:     "show or set the block height of a chain",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				chainFlag,
				cli.BoolFlag{
					Name:  "set",
					Usage: " store a new block height",
				},
				cli.Uint64Flag{
					Name:  "height",
					Value: 0,
					Usage: " block `NUMBER`",
				},
				cli.StringFlag{
					Name:  "hash",
					Value: "",
					Usage: " block hash in hex `HASH`",
				},
			},
			Action: runHeight,
		},
		{
			Name:  "version",
			Usage: "display contract-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		command := c.Args().Get(0)
		if "" == command || "version" == command || "help" == command || "h" == command {
			return nil
		}

		directory := c.GlobalString("directory")
		if "" == directory {
			return fmt.Errorf("directory is required")
		}
		directory, err := filepath.Abs(filepath.Clean(directory))
		if nil != err {
			return err
		}
		if fileInfo, err := os.Stat(directory); nil != err {
			return err
		} else if !fileInfo.IsDir() {
			return fmt.Errorf("not a directory: %q", directory)
		}

		m := &metadata{
			directory: directory,
			domain:    c.GlobalString("domain"),
			verbose:   c.GlobalBool("verbose"),
			yes:       c.GlobalBool("yes"),
			e:         c.App.ErrWriter,
			w:         c.App.Writer,
		}
		c.App.Metadata["config"] = m

		return initialiseLogger(m)
	}

	app.After = func(c *cli.Context) error {
		if _, ok := c.App.Metadata["config"].(*metadata); ok {
			logger.Finalise()
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// engine messages go to <directory>/log/contract-cli.log
func initialiseLogger(m *metadata) error {
	level := "critical"
	if m.verbose {
		level = "info"
	}

	logDirectory := filepath.Join(m.directory, "log")
	if err := os.MkdirAll(logDirectory, 0700); nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "log directory: %q\n", logDirectory)
	}

	return logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      "contract-cli.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
}
