// Package cli implementa actasctl: los botones de la página de actas como
// subcomandos sobre la API HTTP.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"actas-mantenimiento/internal/domain/actas"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"

	DefaultServer = "http://localhost:8080"
)

type globals struct {
	v *viper.Viper
}

func (g *globals) client() (*apiClient, error) {
	return newAPIClient(g.v.GetString("server"), g.v.GetDuration("timeout"))
}

func (g *globals) output() (string, error) {
	o := strings.ToLower(strings.TrimSpace(g.v.GetString("output")))
	switch o {
	case OutputText, OutputJSON, OutputYAML:
		return o, nil
	}
	return "", fmt.Errorf("formato de salida desconocido %q (text, json, yaml)", o)
}

// NewRootCommand arma actasctl. El servidor sale de --server o ACTAS_SERVER.
func NewRootCommand() *cobra.Command {
	g := &globals{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "actasctl",
		Short:         "Cliente de la API de actas de mantenimiento",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("server", DefaultServer, "URL base de la API")
	pf.StringP("output", "o", OutputText, "Formato de salida: text, json, yaml")
	pf.Duration("timeout", 2*time.Minute, "Timeout por request")

	g.v.SetEnvPrefix("ACTAS")
	g.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	g.v.AutomaticEnv()
	_ = g.v.BindPFlags(pf)

	cmd.AddCommand(
		newListCommand(g),
		newAddCommand(g),
		newDeleteCommand(g),
		newExportCommand(g),
		newExportAllCommand(g),
		newExportPhotosCommand(g),
	)
	return cmd
}

func newListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista las actas guardadas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := g.output()
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			entries, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []actas.ListEntry{}
			}
			return writeEntries(cmd.OutOrStdout(), format, entries)
		},
	}
}

func newAddCommand(g *globals) *cobra.Command {
	var (
		fieldsFile string
		req        addRequest
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Guarda un acta nueva a partir de un archivo YAML de campos",
		Example: `  actasctl add --fields acta.yaml --firma firma.png --foto1 tablero.jpg
  actasctl add --fields acta.yaml --firma-trazos trazos.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := g.output()
			if err != nil {
				return err
			}
			if req.FirmaPath == "" && req.TrazosPath == "" {
				return errors.New("se requiere --firma o --firma-trazos")
			}

			f, err := readFields(fieldsFile)
			if err != nil {
				return err
			}
			req.Fields = f

			c, err := g.client()
			if err != nil {
				return err
			}
			a, err := c.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeEntries(cmd.OutOrStdout(), format, actas.Render([]actas.Acta{a}))
		},
	}

	cmd.Flags().StringVar(&fieldsFile, "fields", "", "Archivo YAML con los campos del acta")
	cmd.Flags().StringVar(&req.FirmaPath, "firma", "", "Imagen de la firma (PNG o JPEG)")
	cmd.Flags().StringVar(&req.TrazosPath, "firma-trazos", "", "Trazos de la firma en JSON ([[{x,y},...],...])")
	for i := range actas.MaxFotos {
		n := i + 1
		cmd.Flags().StringVar(&req.FotoPaths[i], fmt.Sprintf("foto%d", n), "", fmt.Sprintf("Foto de evidencia %d", n))
	}
	_ = cmd.MarkFlagRequired("fields")
	return cmd
}

func newDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Borra un acta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Acta %d eliminada.\n", id)
			return nil
		},
	}
}

func newExportCommand(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Exporta un acta a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return download(cmd, g, "/actas/"+strconv.FormatInt(id, 10)+"/pdf", dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directorio destino")
	return cmd
}

func newExportAllCommand(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export-all",
		Short: "Exporta todas las actas en un único PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return download(cmd, g, "/actas/pdf", dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directorio destino")
	return cmd
}

func newExportPhotosCommand(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export-photos",
		Short: "Exporta las fotos de todas las actas en un PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return download(cmd, g, "/actas/fotos/pdf", dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directorio destino")
	return cmd
}

func download(cmd *cobra.Command, g *globals, path, dir string) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	doc, err := c.Download(cmd.Context(), path)
	if err != nil {
		return err
	}

	dst := filepath.Join(dir, doc.Name)
	if err := os.WriteFile(dst, doc.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d páginas)\n", dst, doc.Pages)
	return nil
}

func readFields(path string) (actas.Fields, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return actas.Fields{}, err
	}
	var f actas.Fields
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return actas.Fields{}, fmt.Errorf("campos %s: %w", path, err)
	}
	return f, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id inválido %q", s)
	}
	return id, nil
}

func writeEntries(w io.Writer, format string, entries []actas.ListEntry) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return actas.WriteText(w, entries)
	}
}
