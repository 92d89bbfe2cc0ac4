package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/mathviz/schema"
)

// checkOutput is the --check report for one payload.
type checkOutput struct {
	Domain   schema.Domain `json:"domain"`
	Type     string        `json:"type"`
	Known    bool          `json:"known"`
	Variant  string        `json:"variant,omitempty"`
	Missing  []string      `json:"missing,omitempty"`
	Valid    bool          `json:"valid"`
	Accepted []string      `json:"acceptedTypes,omitempty"`
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		pngPath string
		check   bool
	)

	cmd := &cobra.Command{
		Use:   "render <domain> [file|-]",
		Short: "Render a saved compute-service payload",
		Long: `Render turns a domain payload into a facts panel and chart
descriptions without calling the service. The payload may be the bare data
object or the full {"success": true, "data": {...}} response. It is read
from the file argument, or stdin when the argument is "-" or omitted.

With --check the payload is only validated against the domain's contract.`,
		Example: `  mathviz render calculus response.json -f text
  curl -s ... | mathviz render vectors --png vectors.png
  mathviz render algebra payload.json --check`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := schema.ParseDomain(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v (want one of %s)", errUsage, err, domainList())
			}
			src := "-"
			if len(args) == 2 {
				src = args[1]
			}
			raw, err := readInput(cmd.InOrStdin(), src)
			if err != nil {
				return err
			}
			payload, err := unwrapEnvelope(raw)
			if err != nil {
				return err
			}

			if check {
				return a.checkPayload(cmd, domain, payload)
			}

			res, err := a.render(domain, payload)
			if err != nil {
				return err
			}
			return a.emitResult(cmd.Context(), res, pngPath)
		},
	}

	cmd.Flags().StringVar(&pngPath, "png", "", "Also write a PNG preview of the first 2-D chart")
	cmd.Flags().BoolVar(&check, "check", false, "Validate the payload against its contract only")
	return cmd
}

func (a *app) checkPayload(cmd *cobra.Command, domain schema.Domain, payload []byte) error {
	rep, err := schema.Validate(domain, payload)
	if err != nil {
		return err
	}
	out := checkOutput{
		Domain:  domain,
		Type:    rep.Envelope.Type(),
		Known:   rep.Known,
		Variant: rep.Variant,
		Missing: rep.Missing,
		Valid:   rep.OK(),
	}
	if !rep.Known {
		out.Accepted = schema.Types(domain)
	}
	body, err := a.encodeJSON(out)
	if err != nil {
		return err
	}
	if err := a.emit(cmd.Context(), body); err != nil {
		return err
	}
	if !out.Valid {
		return fmt.Errorf("payload does not satisfy the %s contract", domain)
	}
	return nil
}

// readInput reads src, or r when src is "-".
func readInput(r io.Reader, src string) ([]byte, error) {
	if src == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return data, nil
}

// unwrapEnvelope returns the data object of a full service response, or raw
// unchanged when it is already a bare payload.
func unwrapEnvelope(raw []byte) ([]byte, error) {
	env, err := schema.Decode(raw)
	if err != nil {
		return nil, err
	}
	success, hasSuccess := env["success"]
	if !hasSuccess {
		return raw, nil
	}
	if string(success) != "true" {
		msg := env.String("error")
		if msg == "" {
			msg = "unknown error"
		}
		return nil, errors.New("saved response reports failure: " + msg)
	}
	data, ok := env["data"]
	if !ok {
		return nil, errors.New("saved response has no data object")
	}
	return data, nil
}

func domainList() string {
	names := make([]string, 0, len(schema.Domains()))
	for _, d := range schema.Domains() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
