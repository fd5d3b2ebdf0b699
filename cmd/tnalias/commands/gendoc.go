package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/paths"
)

var (
	genDocDir         string
	genDocFormat      string
	genDocFrontMatter bool
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory")
	genDocCmd.Flags().StringVarP(&genDocFormat, "format", "f", "markdown", "output format: markdown, man, yaml")
	genDocCmd.Flags().BoolVar(&genDocFrontMatter, "front-matter", false, "prepend site front matter to markdown pages")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDoc,
}

func runGenDoc(cmd *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "pass --dir <path>")
	}
	if err := paths.EnsureDir(genDocDir, 0); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	root := cmd.Root()
	// Keep generated pages stable between builds.
	root.DisableAutoGenTag = true

	var err error
	switch genDocFormat {
	case "markdown", "md":
		if genDocFrontMatter {
			err = doc.GenMarkdownTreeCustom(root, genDocDir, frontMatter, docLink)
		} else {
			err = doc.GenMarkdownTree(root, genDocDir)
		}
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{
			Title:   "TNALIAS",
			Section: "1",
			Source:  "tnalias " + root.Version,
			Manual:  "tnalias manual",
		}, genDocDir)
	case "yaml":
		err = doc.GenYamlTree(root, genDocDir)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", genDocFormat), "use markdown, man or yaml")
	}
	if err != nil {
		return errors.Wrapf(err, "generating %s documentation", genDocFormat)
	}

	printStatus(cmd, "Documentation generated in %s", genDocDir)
	return nil
}

// frontMatter titles a page after its command, so tnalias_library_sync.md
// becomes "tnalias library sync".
func frontMatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")
	return fmt.Sprintf("---\ntitle: %q\ndescription: %q\n---\n\n", title, "Reference for "+title)
}

func docLink(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) + "/"
}
