package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
	"git.canoozie.net/riddling/memgraph/pkg/tracing"
)

var zoneStyles = map[tracing.Zone]lipgloss.Style{
	tracing.ZoneInfected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	tracing.ZoneRed:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	tracing.ZoneOrange:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	tracing.ZoneGreen:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
}

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var peoplePath, contactsPath, logLevel string

	cmd := &cobra.Command{
		Use:          "tracer",
		Short:        "Contact tracing over an in-memory graph database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				logLevel = os.Getenv("LOG_LEVEL")
			}
			logger := model.NewDefaultLogger(model.ParseLogLevel(logLevel))

			db := storage.NewDB(logger)
			if err := populate(db, peoplePath, contactsPath); err != nil {
				return err
			}

			tracer := tracing.NewTracer(db, logger)
			return runMenu(cmd.OutOrStdout(), cmd.InOrStdin(), tracer)
		},
	}

	cmd.Flags().StringVar(&peoplePath, "people", "data/people.csv", "CSV of people: header starting with id, one person per row")
	cmd.Flags().StringVar(&contactsPath, "contacts", "data/contact.csv", "CSV of contacts: two person ids per row")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default from LOG_LEVEL)")
	return cmd
}

func populate(db *storage.DB, peoplePath, contactsPath string) error {
	peopleFile, err := os.Open(peoplePath)
	if err != nil {
		return err
	}
	defer peopleFile.Close()
	people, err := tracing.LoadPeople(db, peopleFile)
	if err != nil {
		return err
	}

	contactsFile, err := os.Open(contactsPath)
	if err != nil {
		return err
	}
	defer contactsFile.Close()
	contacts, err := tracing.LoadContacts(db, contactsFile)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d people and %d contacts.\n", people, contacts)
	return nil
}

type menuAction struct {
	description string
	run         func(w io.Writer, in *bufio.Scanner, tracer *tracing.Tracer) error
}

func runMenu(w io.Writer, r io.Reader, tracer *tracing.Tracer) error {
	actions := []struct {
		choice string
		menuAction
	}{
		{"1", menuAction{"List infected people.", listInfected}},
		{"2", menuAction{"Print contact network for a specific person.", printContactNetwork}},
		{"3", menuAction{"Mark a person as infected.", markInfected}},
		{"4", menuAction{"Mark a person as recovered.", markRecovered}},
	}

	in := bufio.NewScanner(r)
	for {
		fmt.Fprintln(w, "\n-----------------------------------------")
		fmt.Fprintln(w, headerStyle.Render("Options"))
		for _, action := range actions {
			fmt.Fprintf(w, "%s - %s\n", action.choice, action.description)
		}
		fmt.Fprintln(w, "q - Quit.")

		choice, ok := prompt(w, in, "Enter your choice: ")
		if !ok || choice == "q" {
			return nil
		}

		for _, action := range actions {
			if action.choice == choice {
				if err := action.run(w, in, tracer); err != nil {
					fmt.Fprintln(w, err)
				}
			}
		}
	}
}

func prompt(w io.Writer, in *bufio.Scanner, question string) (string, bool) {
	fmt.Fprint(w, question)
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func listInfected(w io.Writer, _ *bufio.Scanner, tracer *tracing.Tracer) error {
	infected := tracer.Infected()
	if len(infected) == 0 {
		fmt.Fprintln(w, "Nobody is currently infected.")
		return nil
	}
	for _, person := range infected {
		fmt.Fprintln(w, person)
	}
	return nil
}

func printContactNetwork(w io.Writer, in *bufio.Scanner, tracer *tracing.Tracer) error {
	personID, ok := prompt(w, in, "Enter person Id: ")
	if !ok {
		return nil
	}
	depthStr, ok := prompt(w, in, "How many levels? ")
	if !ok {
		return nil
	}
	depth, err := strconv.Atoi(depthStr)
	if err != nil {
		return fmt.Errorf("not a number: %q", depthStr)
	}

	levels, err := tracer.ContactNetwork(personID, depth)
	if err != nil {
		return err
	}
	return printLevelsWithZone(w, levels, tracer)
}

func markInfected(w io.Writer, in *bufio.Scanner, tracer *tracing.Tracer) error {
	personID, ok := prompt(w, in, "Enter person Id: ")
	if !ok {
		return nil
	}
	if err := tracer.MarkInfected(personID); err != nil {
		return err
	}

	fmt.Fprintf(w, "Since %s is infected, their contacts' zones may have worsened.\n", personID)
	return printNeighborhood(w, personID, tracer)
}

func markRecovered(w io.Writer, in *bufio.Scanner, tracer *tracing.Tracer) error {
	personID, ok := prompt(w, in, "Enter person Id: ")
	if !ok {
		return nil
	}
	if err := tracer.MarkRecovered(personID); err != nil {
		return err
	}

	fmt.Fprintf(w, "Since %s recovered, their contacts' zones may have improved.\n", personID)
	return printNeighborhood(w, personID, tracer)
}

func printNeighborhood(w io.Writer, personID string, tracer *tracing.Tracer) error {
	levels, err := tracer.ContactNetwork(personID, 2)
	if err != nil {
		return err
	}
	return printLevelsWithZone(w, levels, tracer)
}

func printLevelsWithZone(w io.Writer, levels [][]*model.Node, tracer *tracing.Tracer) error {
	for level, people := range levels {
		fmt.Fprintf(w, "Level %d =>\n", level)
		for _, person := range people {
			zone, err := tracer.Zone(person.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\tZone: %s, Details: %s\n", zoneStyles[zone].Render(string(zone)), person)
		}
	}
	return nil
}
