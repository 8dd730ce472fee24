package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig     = "config"
	FlagOut        = "out"
	FlagFormat     = "format"
	FlagRoot       = "root"
	FlagWrap       = "wrap"
	FlagBoxSize    = "box-size"
	FlagDouble     = "double"
	FlagRaw        = "raw"
	FlagSplit      = "split"
	FlagTotalBox   = "total-box"
	FlagInstancing = "instancing"
	FlagLogLevel   = "log-level"
	FlagLogFile    = "log-file"
)

// RegisterFlags adds every compiler flag to fs. Defaults mirror Default so
// help output is accurate; only flags the user set override a config file.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagConfig, "", "Path to config file")
	fs.StringP(FlagOut, "o", "", "File to write output to; stdout if omitted. The format is guessed from its extension unless --format is set")
	fs.StringP(FlagFormat, "f", string(def.Format), "Output format: verify, bvh or obj. Omit to verify only")
	fs.BoolP(FlagRoot, "r", def.Transform.Root, "Box the root, even if a single node would suffice")
	fs.BoolP(FlagWrap, "w", def.Transform.Wrap, "Force instance nodes to hold only boxes directly")
	fs.IntP(FlagBoxSize, "s", def.Transform.BoxSize, "Maximum number of children in one box, 0 for unbounded")
	fs.BoolP(FlagDouble, "d", def.Transform.Double, "Make every box hold either one child or only boxes")
	fs.BoolP(FlagRaw, "a", def.Transform.Raw, "Generate no boxes (not allowed with bvh output)")
	fs.BoolP(FlagSplit, "p", def.Transform.Split, "Split tri-strips into triangles; implied by bvh output")
	fs.BoolP(FlagTotalBox, "t", def.Transform.TotalBox, "Let rays contribute to the bounds of their box")
	fs.IntP(FlagInstancing, "i", def.Transform.Instancing, "Maximum instance levels, 0 for unbounded, 1 for no instancing")
	fs.String(FlagLogLevel, def.Logging.Level, "Log level: debug, info, warn or error")
	fs.String(FlagLogFile, def.Logging.LogFile, "Also write logs to this file")
}

// applyFlags applies explicitly set CLI flags to the config.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetBool(name)
		}
	}
	integer := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}

	format := string(cfg.Format)
	str(FlagFormat, &format)
	cfg.Format = Format(format)
	str(FlagOut, &cfg.Output)
	boolean(FlagRoot, &cfg.Transform.Root)
	boolean(FlagWrap, &cfg.Transform.Wrap)
	integer(FlagBoxSize, &cfg.Transform.BoxSize)
	boolean(FlagDouble, &cfg.Transform.Double)
	boolean(FlagRaw, &cfg.Transform.Raw)
	boolean(FlagSplit, &cfg.Transform.Split)
	boolean(FlagTotalBox, &cfg.Transform.TotalBox)
	integer(FlagInstancing, &cfg.Transform.Instancing)
	str(FlagLogLevel, &cfg.Logging.Level)
	str(FlagLogFile, &cfg.Logging.LogFile)
	return err
}
