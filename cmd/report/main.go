package main

import (
	"flag"
	"log"
	"os"
	"os/exec"
	"strings"
)

func main() {
	var (
		scripts   = flag.String("scripts", "", "Comma separated list of source files to include")
		notebooks = flag.String("notebooks", "", "Comma separated list of notebooks to include")
		readme    = flag.String("readme", "README.md", "Path to the project README")
		logo      = flag.String("logo", "img/logo.png", "Logo image for the cover page")
		repoURL   = flag.String("repo", "https://github.com/equipo13/navauto_client", "Repository link for the cover")
		videoURL  = flag.String("video", "TBD", "Video link for the cover")
		title     = flag.String("title", "Final Report", "Notebook title metadata")
		date      = flag.String("date", "", "Notebook date metadata")
		output    = flag.String("out", "report.ipynb", "Output notebook path")
		toPDF     = flag.Bool("pdf", true, "Convert the notebook to PDF with nbconvert")
	)
	flag.Parse()

	nb, err := buildNotebook(splitList(*scripts), splitList(*notebooks), *readme, *logo, *repoURL, *videoURL, *title, *date)
	if err != nil {
		log.Printf("error building notebook: %s", err.Error())
		os.Exit(1)
	}

	err = nb.writeFile(*output)
	if err != nil {
		log.Printf("error writing notebook: %s", err.Error())
		os.Exit(1)
	}
	log.Printf("wrote notebook: %s", *output)

	if !*toPDF {
		return
	}

	// The PDF conversion stays external.
	cmd := exec.Command("jupyter", "nbconvert", "--to", "pdf", *output)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		log.Printf("error converting notebook to pdf: %s", err.Error())
		os.Exit(1)
	}
	log.Println("report complete")
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
