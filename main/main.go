package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/phil-mansfield/halopop"
	"github.com/phil-mansfield/halopop/io"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		populate, exampleConfig, plotCatalog string
		index, threads                       int
	)
	vars := map[string]*string{
		"Populate":      &populate,
		"ExampleConfig": &exampleConfig,
		"PlotCatalog":   &plotCatalog,
	}

	flag.StringVar(
		&populate, "Populate", "",
		"Configuration file for [Populate] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Populate'.",
	)
	flag.StringVar(
		&plotCatalog, "PlotCatalog", "",
		"Directory containing a halo catalog. A mass function and an x-y "+
			"projection of the catalog are saved to the same directory.",
	)
	flag.IntVar(
		&index, "Index", -1,
		"Realization to populate. Overrides 'Index', 'IterationStart', and "+
			"'IterationEnd' in the config file.",
	)
	flag.IntVar(
		&threads, "Threads", 0,
		"Number of threads used. Overrides 'Threads' in the config file. "+
			"Default is the number of logical cores.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Populate":
		con, err := io.ReadPopulateConfig(populate)
		if err != nil {
			log.Fatal(err.Error())
		}
		populateMain(con, index, threads)

	case "ExampleConfig":
		switch exampleConfig {
		case "Populate":
			fmt.Println(io.ExamplePopulateFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Populate'.",
			)
		}

	case "PlotCatalog":
		if err := plotMain(plotCatalog); err != nil {
			log.Fatal(err.Error())
		}

	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but halopop only accepts "+
				"one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// populateMain runs every realization requested by the config file.
func populateMain(con *io.PopulateConfig, index, threads int) {
	fg, err := setupFiles(con)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer fg.Close()

	idxs, err := con.Indices(index)
	if err != nil {
		log.Fatal(err.Error())
	}

	cfg, err := halopop.NewConfig(con)
	if err != nil {
		log.Fatal(err.Error())
	}
	if threads > 0 {
		cfg.Threads = threads
	}
	cfg.Log = true
	runtime.GOMAXPROCS(cfg.Threads)

	log.Printf(
		"Populating %d realization(s) with %d threads and base seed %d.",
		len(idxs), cfg.Threads, cfg.Seed,
	)

	for _, i := range idxs {
		rcfg := cfg.ForIndex(i)
		log.Printf("Realization %d (seed %d):", i, rcfg.Seed)

		in, err := halopop.Load(con, &rcfg, i)
		if err != nil {
			log.Fatalf("Could not load realization %d: %s", i, err.Error())
		}

		res, err := halopop.Run(rcfg, in)
		if err != nil {
			log.Fatalf("Could not populate realization %d: %s", i, err.Error())
		}

		dir := con.OutputDir(i)
		err = halopop.Write(dir, con.OutputFormat, i, &rcfg, in, res)
		if err != nil {
			log.Fatalf("Could not write realization %d: %s", i, err.Error())
		}
		log.Printf("Wrote %d halos to %s.", res.Cube.Len(), dir)
	}
}

// setupFiles opens the log and profile files requested by the config and
// points the log package and the CPU profiler at them.
func setupFiles(con *io.PopulateConfig) (fg *FileGroup, err error) {
	fg = new(FileGroup)

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			return nil, err
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			return nil, err
		}
		if err = pprof.StartCPUProfile(fg.prof); err != nil {
			return nil, err
		}
	}

	return fg, nil
}
