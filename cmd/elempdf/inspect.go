package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	elempdf "github.com/porticus-lab/go-element-pdf"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "display page dimensions of a PDF file",
		ArgsUsage: "<file.pdf>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("no input file specified")
			}
			info, err := elempdf.Inspect(c.Args().First())
			if err != nil {
				return err
			}
			return printInfo(c.App.Writer, info, c.Bool("json"))
		},
	}
}

func printInfo(w io.Writer, info *elempdf.Info, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "File:    %s\n", info.Path)
	fmt.Fprintf(w, "Size:    %d bytes\n", info.Size)
	fmt.Fprintf(w, "Pages:   %d\n", len(info.Pages))

	if len(info.Pages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Page dimensions:")
		for i, p := range info.Pages {
			fmt.Fprintf(w, "  Page %d: %.2f x %.2f pt", i+1, p.Width, p.Height)
			if p.Landscape() {
				fmt.Fprint(w, " (landscape)")
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
