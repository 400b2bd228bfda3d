// Command duskgrid-drive is a minimal terminal driver over the
// duskgrid engine: it builds one movable body and one static solid
// body, then reads line commands from stdin and calls Step on a fixed
// tick interval. It exists to exercise CreateBody, MutateCell, and Step
// end to end without pulling in any windowing or rendering dependency —
// the keyboard-command shape is grounded on
// original_source/src/engine/input.rs and systems/io.rs, reimagined as a
// plain stdin dispatch loop since neither macroquad nor any other
// windowing library is part of this module's dependency surface.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/body"
	"github.com/duskgrid/duskgrid/pkg/collision"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
)

// tickDt is the fixed simulation step every stdin command advances by,
// matching the fixed-tick contract Step is specified against.
const tickDt float32 = 1.0 / 8

// moveStep and turnStep are the velocity nudges w/a/s/d and q/e apply per
// keypress, left comfortably small relative to tickDt and DragMultiplier
// so a held direction reads as acceleration rather than a teleport.
const (
	moveStep = float32(2.0)
	turnStep = float32(0.5)
)

// gridHeight sizes the controlled body's own DAG: a height-3 root is an
// 8x8 cell grid, large enough to carve shapes into with mutate without
// immediately hitting MutateCell's depth ceiling.
const gridHeight uint32 = 3

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	palette := material.Default()
	store := dag.NewStore(palette.Len())
	bodies := body.NewSet(store, palette)

	player, err := bodies.CreateBody(
		dag.ExternalPointer{Root: dag.Index(material.Stone), Height: gridHeight},
		xmath.Vec2{X: 0, Y: 0}, 0, false,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create player body")
	}

	ground, err := bodies.CreateBody(
		dag.ExternalPointer{Root: dag.Index(material.Stone), Height: gridHeight + 2},
		xmath.Vec2{X: 0, Y: 40}, 0, true,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create ground body")
	}
	log.Info().Uint32("player", uint32(player.ID)).Uint32("ground", uint32(ground.ID)).Msg("world ready")

	sched := collision.NewScheduler(store, palette, bodies)
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := dispatch(line, player, bodies, sched); err != nil {
			log.Error().Err(err).Str("command", line).Msg("command failed")
			continue
		}
		log.Info().
			Float32("x", player.Position.X).Float32("y", player.Position.Y).
			Float32("rotation", player.Rotation).
			Msg("player state")
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("reading stdin")
	}
}

func printHelp() {
	fmt.Fprintln(os.Stderr, "commands: w a s d (translate), q e (rotate), mutate x y height material, step, quit")
}

// dispatch applies one command line and, for every command except
// mutate, advances the simulation by one fixed tick.
func dispatch(line string, player *body.Body, bodies *body.Set, sched *collision.Scheduler) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "w":
		player.LinearVelocity.Y -= moveStep
	case "s":
		player.LinearVelocity.Y += moveStep
	case "a":
		player.LinearVelocity.X -= moveStep
	case "d":
		player.LinearVelocity.X += moveStep
	case "q":
		player.AngularVelocity -= turnStep
	case "e":
		player.AngularVelocity += turnStep
	case "step":
		// no velocity change, just advance the clock
	case "quit":
		os.Exit(0)
	case "mutate":
		return mutate(fields[1:], player, bodies)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return sched.Step(tickDt)
}

// mutate parses "mutate x y height material": x,y is a world point in the
// player body's own frame, height is the block size to edit, per
// spec.md's mutate_cell(BodyId, target_height, world_point, new_leaf)
// contract.
func mutate(args []string, player *body.Body, bodies *body.Set) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: mutate x y height material")
	}
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("bad y: %w", err)
	}
	height, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("bad height: %w", err)
	}
	mat, err := parseMaterial(args[3])
	if err != nil {
		return err
	}

	worldPoint := xmath.Vec2{X: float32(x), Y: float32(y)}
	return bodies.MutateCell(player.ID, uint32(height), worldPoint, dag.Index(mat))
}

func parseMaterial(s string) (material.Index, error) {
	switch strings.ToLower(s) {
	case "empty", "air":
		return material.Empty, nil
	case "stone":
		return material.Stone, nil
	case "dirt":
		return material.Dirt, nil
	case "glass":
		return material.Glass, nil
	default:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("unknown material %q", s)
		}
		return material.Index(n), nil
	}
}
