// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runMigrate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	chainID, err := checkChain(c)
	if nil != err {
		return err
	}

	rate := c.Int("rate")
	if rate < 0 {
		return fmt.Errorf("invalid rate: %d", rate)
	}

	configuration := contractConfiguration(m)
	configuration.Migration.SkipExisting = !c.Bool("overwrite")
	configuration.Migration.Rate = rate

	ds, err := openDataSource(m, chainID, configuration)
	if nil != err {
		return err
	}
	defer ds.Close()

	status := ds.Migration()
	if !status.LegacyPresent {
		return fmt.Errorf("%s: no legacy table", ds.Name())
	}

	if !status.Completed {
		if configuration.Migration.SkipExisting {
			fmt.Fprintf(m.w, "rows already present in %s shards are kept\n", ds.Name())
		} else {
			ok, err := confirm(m, fmt.Sprintf("overwrite rows in %s shards", ds.Name()))
			if nil != err {
				return err
			}
			if !ok {
				fmt.Fprintf(m.w, "not migrated\n")
				return nil
			}
		}

		if err := ds.MigrateLegacy(); nil != err {
			return err
		}
	}

	return printJson(m.w, ds.Migration())
}
