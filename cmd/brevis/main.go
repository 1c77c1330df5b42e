// Command brevis encodes and decodes ids, verification codes and one time passwords from the command line.
//
// Usage:
//
//	brevis [--config brevis.toml] <command> [arguments]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/codec"
	"github.com/komuw/brevis/config"
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
	"github.com/komuw/brevis/internal/batch"
	"github.com/komuw/brevis/log"
	"github.com/komuw/brevis/otp"
)

// version is set at build time.
var version = "dev" //nolint:gochecknoglobals

const logBufferSize = 100

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	l := log.New(ctx, stderr, logBufferSize)
	if err := newApp(l, stdout, stderr).RunContext(ctx, args); err != nil {
		l.ErrorContext(ctx, "brevis failed", "args", args[1:], "err", err)
		return 1
	}
	return 0
}

func newApp(l *slog.Logger, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "brevis",
		Usage:                  "Short, checked, human friendly encodings of integers",
		Version:                version,
		Writer:                 stdout,
		ErrWriter:              stderr,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML profile to load; the default profile is used if empty",
				EnvVars: []string{"BREVIS_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show the shipped character sets and alphabets",
				Action: statsAction,
			},
			{
				Name:      "scramble",
				Usage:     "Randomly reorder the characters of a string, eg to make a new alphabet",
				ArgsUsage: "CHARACTERS",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "seed",
						Usage: "Seed for a reproducible result",
					},
				},
				Action: scrambleAction,
			},
			{
				Name:      "unscramble",
				Usage:     "Sort the characters of a string",
				ArgsUsage: "CHARACTERS",
				Action:    unscrambleAction,
			},
			{
				Name:      "encode",
				Aliases:   []string{"e"},
				Usage:     "Encode integers; put -- before the first negative integer",
				ArgsUsage: "[--] N...",
				Flags:     []cli.Flag{checkFlag(), workersFlag()},
				Action:    withCodec(l, encodeAction),

				OnUsageError: negativeHint,
			},
			{
				Name:      "decode",
				Aliases:   []string{"d"},
				Usage:     "Decode encodings back into integers",
				ArgsUsage: "[--] CODE...",
				Flags:     []cli.Flag{checkFlag(), workersFlag()},
				Action:    withCodec(l, decodeAction),

				OnUsageError: negativeHint,
			},
			{
				Name:      "uuid",
				Usage:     "Encode a UUID, decode an encoded UUID, or encode a new random UUID",
				ArgsUsage: "[UUID|CODE]",
				Flags:     []cli.Flag{checkFlag()},
				Action:    withCodec(l, uuidAction),
			},
			{
				Name:  "verify",
				Usage: "Issue and check verification codes",
				Subcommands: []*cli.Command{
					{
						Name:      "issue",
						Usage:     "Issue a verification code for an id",
						ArgsUsage: "[ID]",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "days",
								Usage: "Number of days the code is valid for; the profile's days_valid if not set",
							},
						},
						Action: verifyIssueAction(l),
					},
					{
						Name:      "check",
						Usage:     "Decode a verification code and check its validity date",
						ArgsUsage: "CODE",
						Action:    verifyCheckAction(l),
					},
				},
			},
			{
				Name:  "otp",
				Usage: "Generate a one time password",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "split",
						Usage: "Two three character halves, each over its own alphabet",
					},
				},
				Action: otpAction,
			},
			{
				Name:   "config",
				Usage:  "Print the effective profile as TOML",
				Action: configAction,
			},
		},
	}
}

func checkFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "check",
		Aliases: []string{"k"},
		Usage:   "Append, or expect, a check character",
	}
}

func workersFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "Maximum number of inputs handled at once; 0 means one per CPU",
	}
}

// negativeHint explains flag errors caused by a leading negative integer, which the flag parser reads as a flag.
func negativeHint(_ *cli.Context, err error, _ bool) error {
	return errors.Kindf(errors.KindValue, "brevis: %w; use -- to separate flags from negative integers", err)
}

func profile(c *cli.Context) (config.Profile, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// withCodec runs action with a codec builder made from the profile and the --check flag.
func withCodec(l *slog.Logger, action func(*cli.Context, *slog.Logger, *codec.Builder) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, err := profile(c)
		if err != nil {
			return err
		}
		if c.Bool("check") {
			p.Codec.Checked = true
		}
		b, err := p.CodecBuilder()
		if err != nil {
			return err
		}
		return action(c, l.With("command", c.Command.Name), b)
	}
}

func statsAction(c *cli.Context) error {
	w := c.App.Writer
	for _, n := range alphabet.Shipped() {
		fmt.Fprintf(w, "%s character set (len is %d): %s\n", n.Name, len(n.CharacterSet), alphabet.Unscramble(n.CharacterSet))
		fmt.Fprintf(w, "%s alphabet (len is %d): %s\n", n.Name, len(n.Alphabet), n.Alphabet)
		fmt.Fprintf(w, "%s fingerprint: %016x\n", n.Name, alphabet.Fingerprint(n.Alphabet))
	}
	return nil
}

func scrambleAction(c *cli.Context) error {
	s, err := oneArg(c)
	if err != nil {
		return err
	}
	var src id.Source = id.Crypto
	if seed := c.String("seed"); seed != "" {
		src = id.NewSeeded([]byte(seed))
	}
	out, err := alphabet.Scramble(src, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Scrambled %s is %s\n", s, out)
	return nil
}

func unscrambleAction(c *cli.Context) error {
	s, err := oneArg(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Unscrambled %s is %s\n", s, alphabet.Unscramble(s))
	return nil
}

func encodeAction(c *cli.Context, l *slog.Logger, b *codec.Builder) error {
	e, err := b.BuildLong()
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return errors.Kindf(errors.KindValue, "brevis: encode needs at least one integer")
	}
	values := make([]int64, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return errors.Kindf(errors.KindValue, "brevis: %q is not an integer: %w", arg, err)
		}
		values = append(values, v)
	}

	codes, err := batch.Map(c.Context, c.Int("workers"), values, func(v int64) (string, error) {
		s, err := e.Encode(v)
		if err != nil {
			return "", err
		}
		l.InfoContext(c.Context, "encoded", "id", v, "code", s)
		return s, nil
	})
	if err != nil {
		return err
	}
	for i, v := range values {
		fmt.Fprintf(c.App.Writer, "%d encodes to %s\n", v, codes[i])
	}
	return nil
}

func decodeAction(c *cli.Context, l *slog.Logger, b *codec.Builder) error {
	e, err := b.BuildLong()
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return errors.Kindf(errors.KindValue, "brevis: decode needs at least one code")
	}

	codes := c.Args().Slice()
	values, err := batch.Map(c.Context, c.Int("workers"), codes, func(s string) (int64, error) {
		v, err := e.Decode(s)
		if err != nil {
			return 0, err
		}
		l.InfoContext(c.Context, "decoded", "code", s, "id", v)
		return v, nil
	})
	if err != nil {
		return err
	}
	for i, s := range codes {
		fmt.Fprintf(c.App.Writer, "%s decodes to %d\n", s, values[i])
	}
	return nil
}

func uuidAction(c *cli.Context, l *slog.Logger, b *codec.Builder) error {
	e, err := b.BuildUUID()
	if err != nil {
		return err
	}
	w := c.App.Writer

	arg := c.Args().First()
	if arg == "" {
		u, err := id.UUID4(id.Crypto)
		if err != nil {
			return err
		}
		s, err := e.Encode(u)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s encodes to %s\n", u, s)
		return nil
	}

	if u, perr := uuid.Parse(arg); perr == nil {
		s, err := e.Encode(u)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s encodes to %s\n", u, s)
		return nil
	}

	u, err := e.Decode(arg)
	if err != nil {
		return err
	}
	l.Info("decoded uuid", "code", arg, "uuid", u.String())
	fmt.Fprintf(w, "%s decodes to %s\n", arg, u)
	return nil
}

func verifyIssueAction(l *slog.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, err := profile(c)
		if err != nil {
			return err
		}
		vb, err := p.VerifyBuilder()
		if err != nil {
			return err
		}
		e, err := vb.Build()
		if err != nil {
			return err
		}

		var vid int64
		if arg := c.Args().First(); arg != "" {
			if vid, err = strconv.ParseInt(arg, 10, 64); err != nil {
				return errors.Kindf(errors.KindValue, "brevis: %q is not an integer: %w", arg, err)
			}
		} else if vid, err = e.RandomID(id.Crypto); err != nil {
			return err
		}

		days := e.DaysValid()
		if c.IsSet("days") {
			days = c.Int("days")
		}
		code, err := e.EncodeDays(vid, days)
		if err != nil {
			return err
		}
		l.Info("issued verification code", "id", vid, "days", days, "code", code)
		fmt.Fprintf(c.App.Writer, "%d is %s, valid for %d days\n", vid, code, days)
		return nil
	}
}

func verifyCheckAction(l *slog.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		code, err := oneArg(c)
		if err != nil {
			return err
		}
		p, err := profile(c)
		if err != nil {
			return err
		}
		vb, err := p.VerifyBuilder()
		if err != nil {
			return err
		}
		e, err := vb.Build()
		if err != nil {
			return err
		}

		v, err := e.Decode(code)
		if err != nil {
			return err
		}
		status := "valid"
		if !v.IsValid(time.Now()) {
			status = "expired"
		}
		l.Info("checked verification code", "code", code, "verifier", v.String(), "status", status)
		fmt.Fprintf(c.App.Writer, "%s is id %d, valid until %s: %s\n", code, v.ID(), v.ValidUntil().Format(time.DateOnly), status)
		return nil
	}
}

func otpAction(c *cli.Context) error {
	if c.Bool("split") {
		e, err := otp.NewSplitEncoder("", "")
		if err != nil {
			return err
		}
		code, err := e.EncodeRandom(id.Crypto)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, code)
		return nil
	}

	e, err := otp.NewBuilder().Build()
	if err != nil {
		return err
	}
	code, err := e.EncodeRandom(id.Crypto)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, code)
	return nil
}

func configAction(c *cli.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	b, err := p.Marshal()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(b)
	return err
}

func oneArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.Kindf(errors.KindValue, "brevis: %s takes exactly one argument, got %d", c.Command.Name, c.NArg())
	}
	return c.Args().First(), nil
}
