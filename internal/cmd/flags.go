// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"

	"github.com/aibor/guestinit/internal/agent"
	"github.com/aibor/guestinit/internal/guestconfig"
	"github.com/spf13/pflag"
)

const (
	initName        = "init"
	mkinitramfsName = "mkinitramfs"

	defaultOutput = "initramfs.cpio"
)

type initFlags struct {
	ConfigPath string
	Debug      bool
	VsockPort  uint32

	flagSet *pflag.FlagSet
	output  io.Writer
}

func newInitFlags(output io.Writer) *initFlags {
	flags := &initFlags{
		ConfigPath: guestconfig.DefaultPath,
		VsockPort:  agent.DefaultConfig().Port,
	}

	fs := pflag.NewFlagSet(initName, pflag.ContinueOnError)
	fs.SetOutput(output)

	// The kernel passes unknown command line parameters to the init. They
	// must not prevent the system from booting.
	fs.ParseErrorsWhitelist.UnknownFlags = true

	fs.StringVar(
		&flags.ConfigPath,
		"config",
		flags.ConfigPath,
		"path to the guest config descriptor",
	)

	fs.BoolVar(
		&flags.Debug,
		"debug",
		flags.Debug,
		"enable debug output",
	)

	fs.Uint32Var(
		&flags.VsockPort,
		"vsock-port",
		flags.VsockPort,
		"vsock port the control plane listens on",
	)

	flags.flagSet = fs
	flags.output = output

	return flags
}

func (f *initFlags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	if f.ConfigPath == "" {
		return fail(f.flagSet, f.output, "no config given (use --config)", ErrMissingArg)
	}

	return nil
}

type mkinitramfsFlags struct {
	InitPath   string
	ConfigPath string
	OutputPath string
	Debug      bool

	flagSet *pflag.FlagSet
	output  io.Writer
}

func newMkinitramfsFlags(output io.Writer) *mkinitramfsFlags {
	flags := &mkinitramfsFlags{
		OutputPath: defaultOutput,
	}

	fs := pflag.NewFlagSet(mkinitramfsName, pflag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVarP(
		&flags.InitPath,
		"init",
		"i",
		flags.InitPath,
		"init binary to pack as /init",
	)

	fs.StringVarP(
		&flags.ConfigPath,
		"config",
		"c",
		flags.ConfigPath,
		"guest config descriptor to pack as "+guestconfig.DefaultPath,
	)

	fs.StringVarP(
		&flags.OutputPath,
		"output",
		"o",
		flags.OutputPath,
		"path of the archive to write",
	)

	fs.BoolVar(
		&flags.Debug,
		"debug",
		flags.Debug,
		"enable debug output",
	)

	flags.flagSet = fs
	flags.output = output

	return flags
}

func (f *mkinitramfsFlags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	if f.InitPath == "" {
		return fail(f.flagSet, f.output, "no init given (use --init)", ErrMissingArg)
	}

	if f.ConfigPath == "" {
		return fail(f.flagSet, f.output, "no config given (use --config)", ErrMissingArg)
	}

	if f.OutputPath == "" {
		return fail(f.flagSet, f.output, "no output given (use --output)", ErrMissingArg)
	}

	return nil
}

// fail fails like pflag does. It prints the error first and then usage.
func fail(fs *pflag.FlagSet, output io.Writer, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(output, err.Error())
	fmt.Fprintf(output, "Usage of %s:\n", fs.Name())

	fs.PrintDefaults()

	return err
}
