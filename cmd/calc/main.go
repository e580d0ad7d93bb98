// Package main provides a command-line expected wounds calculator. It computes
// locally, or against a running API when -server is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pefman/w40k-wounds/internal/api"
	"github.com/pefman/w40k-wounds/internal/engine"
	"github.com/pefman/w40k-wounds/internal/models"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// options is the parsed command line.
type options struct {
	profile   models.Profile
	mods      engine.ModifierSet
	breakdown bool
	serverURL string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	attacks := fs.Int("attacks", 1, "number of attack dice")
	hit := fs.Int("hit", 3, "hit roll needed (1-6)")
	wound := fs.Int("wound", 3, "wound roll needed (1-6)")
	save := fs.Int("save", 3, "defender save (1-6)")
	rerollHits := fs.String("reroll-hits", "none", "hit rerolls: none, all or ones")
	rerollWounds := fs.String("reroll-wounds", "none", "wound rerolls: none, all or ones")
	sustained := fs.Bool("sustained", false, "Sustained Hits 1")
	lethal := fs.Bool("lethal", false, "Lethal Hits")
	devastating := fs.Bool("devastating", false, "Devastating Wounds")
	improvedAP := fs.Bool("improved-ap", false, "improve AP by 1")
	breakdown := fs.Bool("breakdown", false, "print every intermediate value")
	serverURL := fs.String("server", "", "base URL of a running API; empty computes locally")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	prof := models.Profile{Attacks: *attacks, Hit: *hit, Wound: *wound, Save: *save}
	if err := prof.Validate(); err != nil {
		return options{}, fmt.Errorf("invalid profile: %w", err)
	}
	hr, ok := engine.ParseRerollMode(*rerollHits)
	if !ok {
		return options{}, fmt.Errorf("invalid -reroll-hits %q", *rerollHits)
	}
	wr, ok := engine.ParseRerollMode(*rerollWounds)
	if !ok {
		return options{}, fmt.Errorf("invalid -reroll-wounds %q", *rerollWounds)
	}
	return options{
		profile: prof,
		mods: engine.ModifierSet{
			HitReroll:         hr,
			WoundReroll:       wr,
			SustainedHits:     *sustained,
			LethalHits:        *lethal,
			DevastatingWounds: *devastating,
			ImprovedAP:        *improvedAP,
		},
		breakdown: *breakdown,
		serverURL: *serverURL,
	}, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}

	var b engine.Breakdown
	if opts.serverURL == "" {
		b = engine.Compute(opts.profile.Engine(), opts.mods)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resp, err := api.NewClient(opts.serverURL).ExpectedWounds(ctx, opts.profile.Engine(), opts.mods)
		if err != nil {
			return fmt.Errorf("remote calculation: %w", err)
		}
		b = resp.Breakdown
	}

	if opts.breakdown {
		printBreakdown(stdout, b)
	}
	fmt.Fprintf(stdout, "Expected Wounds: %s\n", models.FormatWounds(b.ExpectedWounds))
	return nil
}

func printBreakdown(w io.Writer, b engine.Breakdown) {
	rows := []struct {
		label string
		v     float64
	}{
		{"hit probability", b.HitProb},
		{"wound probability", b.WoundProb},
		{"save probability", b.SaveProb},
		{"sustained hits", b.SustainedHits},
		{"lethal hits", b.LethalHits},
		{"hits to wound", b.SuccessfulHits},
		{"devastating wounds", b.DevastatingWounds},
		{"normal wounds", b.NormalWounds},
		{"normal wounds after saves", b.NormalWoundsAfterSaves},
		{"lethal wounds after saves", b.LethalWoundsAfterSaves},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-26s %.4f\n", r.label+":", r.v)
	}
}
