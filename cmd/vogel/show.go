package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/fs"
)

// requireDB reports a missing --db flag.
func requireDB(deps *Dependencies) error {
	if deps.Species != nil {
		return nil
	}
	fmt.Fprintf(deps.Stderr, "error: no database configured. Use --db or set VOGEL_DB.\n")
	return vogel.Errorf(vogel.EINVALID, "no database configured")
}

// Run executes the show command. Without a database the record file in
// the data directory is read instead.
func (c *ShowCmd) Run(deps *Dependencies) error {
	s, err := c.find(deps)
	if err != nil {
		switch {
		case vogel.ErrorCode(err) != vogel.ENOTFOUND:
			fmt.Fprintf(deps.Stderr, "error: %s\n", vogel.ErrorMessage(err))
		case deps.Species != nil:
			fmt.Fprintf(deps.Stderr, "error: species %q not found. Use 'vogel species' to see stored records.\n", c.Name)
		default:
			fmt.Fprintf(deps.Stderr, "error: species %q not found. Run 'vogel parse' first or use --db.\n", c.Name)
		}
		return err
	}

	if c.Field != "" {
		value, ok := s.Get(c.Field)
		if !ok {
			fmt.Fprintf(deps.Stderr, "error: unknown field %q\n", c.Field)
			return vogel.Errorf(vogel.EINVALID, "unknown field %q", c.Field)
		}
		fmt.Fprintln(deps.Stdout, value)
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(s)
}

func (c *ShowCmd) find(deps *Dependencies) (*vogel.Species, error) {
	if deps.Species != nil {
		return deps.Species.FindSpeciesByName(deps.Ctx, c.Name)
	}
	path := fs.NewSpeciesWriter(deps.dataPath(fs.RecordsDir)).Path(c.Name)
	return fs.ReadSpecies(path)
}

// Run executes the species command.
func (c *SpeciesCmd) Run(deps *Dependencies) error {
	if err := requireDB(deps); err != nil {
		return err
	}

	filter := vogel.SpeciesFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Name != "" {
		filter.Name = &c.Name
	}
	if c.Endangerment != "" {
		filter.Endangerment = &c.Endangerment
	}

	entries, err := deps.Species.FindSpecies(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vogel.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No species found.")
		return nil
	}

	for _, e := range entries {
		switch {
		case e.LatinName != "" && e.Endangerment != "":
			fmt.Fprintf(deps.Stdout, "%s (%s) - %s\n", e.Name, e.LatinName, e.Endangerment)
		case e.LatinName != "":
			fmt.Fprintf(deps.Stdout, "%s (%s)\n", e.Name, e.LatinName)
		default:
			fmt.Fprintln(deps.Stdout, e.Name)
		}
	}
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return vogel.Errorf(vogel.EINVALID, "use --force to confirm deletion")
	}
	if err := requireDB(deps); err != nil {
		return err
	}

	if err := deps.Species.DeleteSpecies(deps.Ctx, c.Name); err != nil {
		if vogel.ErrorCode(err) == vogel.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: species %q not found. Use 'vogel species' to see stored records.\n", c.Name)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", vogel.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted species %q\n", c.Name)
	return nil
}
