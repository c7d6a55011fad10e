// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/cmd/portal/auth"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/form"
)

type updateParams struct {
	cli.Options
	cli.JSONOutput
	Address string `json:"address" flag:"address" desc:"street address (empty clears it)"`
	Gender  string `json:"gender"  flag:"gender"  desc:"Male, Female or Other (empty clears it)"`
	Age     string `json:"age"     flag:"age"     desc:"age in whole years (empty clears it)"`
}

// editable maps each field flag to the profile form field it sets.
var editable = []struct {
	flag  string
	field string
}{
	{"address", form.FieldAddress},
	{"gender", form.FieldGender},
	{"age", form.FieldAge},
}

func updateCommand(streams cli.Streams) *cli.Command {
	var params updateParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "update",
		Summary: "Change address, gender or age",
		Description: fmt.Sprintf(`Update the optional profile fields. Only the flags given are changed;
the others keep their saved values. Gender must be one of %s.
On success the saved profile is replaced with the server's copy.`,
			strings.Join(account.Genders[1:], ", ")),
		Usage: "portal profile update [--address <text>] [--gender <value>] [--age <years>] [flags]",
		Examples: []cli.Example{
			{
				Description: "Set the age and clear the address",
				Command:     "portal profile update --age 34 --address ''",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("update", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			changes := map[string]string{}
			values := map[string]string{
				form.FieldAddress: params.Address,
				form.FieldGender:  params.Gender,
				form.FieldAge:     params.Age,
			}
			for _, entry := range editable {
				if flagSet.Changed(entry.flag) {
					changes[entry.field] = values[entry.field]
				}
			}
			if len(changes) == 0 {
				return cli.Validation("nothing to update: give at least one of --address, --gender or --age")
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			controller := form.NewProfile(runtime.Client, runtime.Sessions)
			if _, err := controller.Load(ctx); err != nil {
				return auth.SubmitError(err, controller)
			}
			if err := controller.StartEdit(); err != nil {
				return auth.SubmitError(err, controller)
			}
			for field, value := range changes {
				controller.Set(field, value)
			}

			updated, err := controller.Submit(ctx)
			if err != nil {
				return auth.SubmitError(err, controller)
			}
			logger.Info("profile updated", "fields", len(changes))

			if done, err := params.EmitJSON(streams.Out, updated); done {
				return err
			}
			fmt.Fprintln(streams.Err, controller.Banner().Text)
			printUser(streams.Out, *updated)
			return nil
		},
	}
}
