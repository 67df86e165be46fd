package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/logger"
	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/output"
	"supermarket-sim/pkg/scenario"
	"supermarket-sim/pkg/simulator"
)

const defaultSeed = 7

func main() {
	// .env optionnel, les variables déjà définies gardent la priorité
	_ = godotenv.Load()

	start := flag.String("start", os.Getenv("SUPERSIM_START"), "Date de début incluse (YYYY-MM-DD)")
	end := flag.String("end", os.Getenv("SUPERSIM_END"), "Date de fin incluse (YYYY-MM-DD)")
	out := flag.String("out", os.Getenv("SUPERSIM_OUT"), "Dossier de sortie")
	seed := flag.Int64("seed", envInt64("SUPERSIM_SEED", defaultSeed), "Graine du générateur aléatoire")
	scenarioPath := flag.String("scenario", os.Getenv("SUPERSIM_SCENARIO"), "Fichier TOML de scénario (optionnel)")
	format := flag.String("format", "csv", "Format de sortie: csv, xlsx ou both")
	verbose := flag.Bool("v", false, "Mode verbeux")
	progress := flag.Bool("progress", true, "Barre de progression")
	flag.Parse()

	level := zapcore.InfoLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	if err := logger.Init(level, zap.String("service", "supermarket-sim")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Log.Sync() //nolint:errcheck

	if *start == "" || *end == "" || *out == "" {
		logger.Log.Fatal("Usage: supermarket-sim --start YYYY-MM-DD --end YYYY-MM-DD --out DIR [--seed N] [--scenario file.toml] [--format csv|xlsx|both]")
	}

	outFormat, err := output.ParseFormat(*format)
	if err != nil {
		logger.Log.Fatal("format", zap.Error(err))
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		logger.Log.Fatal("scénario", zap.Error(err))
	}

	from, err := calendar.ParseDate(*start, sc.Location)
	if err != nil {
		logger.Log.Fatal("start", zap.Error(err))
	}
	to, err := calendar.ParseDate(*end, sc.Location)
	if err != nil {
		logger.Log.Fatal("end", zap.Error(err))
	}

	res, err := simulator.Run(sc, models.RunConfig{
		Start:    from,
		End:      to,
		Seed:     *seed,
		Verbose:  *verbose,
		Progress: *progress,
	})
	if err != nil {
		logger.Log.Fatal("simulation", zap.Error(err))
	}

	paths, err := output.Write(*out, outFormat, res.Pings, res.Sales)
	if err != nil {
		logger.Log.Fatal("écriture", zap.Error(err))
	}
	for _, p := range paths {
		logger.Log.Info("fichier écrit", zap.String("path", p))
	}
	for _, role := range models.Roles {
		if n := res.Summary.PingsByRole[role]; n > 0 {
			logger.Log.Debug("pings par rôle", zap.String("role", string(role)), zap.Int("rows", n))
		}
	}
	fmt.Printf("[OK] %d pings, %d ventes, %d jours ouverts sur %d\n",
		res.Summary.Pings, res.Summary.Sales, res.Summary.OpenDays, res.Summary.Days)
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
