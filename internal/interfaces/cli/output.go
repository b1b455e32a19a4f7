package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/application/production"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("formato no soportado %q (use table o json)", format)
	}
}

// runPlan calcula el plan, lo imprime y, si pdfPath no está vacío, escribe también
// el PDF del mismo plan.
func runPlan(cmd *cobra.Command, uc *production.OptimizeUseCase, format, pdfPath string) error {
	ctx := cmd.Context()
	plan, err := uc.Optimize(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		err = writePlanJSON(out, plan)
	} else {
		err = writePlanTable(out, plan)
	}
	if err != nil {
		return err
	}

	if pdfPath == "" {
		return nil
	}
	doc, err := uc.RenderPDF(ctx, plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pdfPath, doc, 0o644); err != nil {
		return fmt.Errorf("escribir PDF: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "PDF escrito en %s\n", pdfPath)
	return nil
}

func writePlanJSON(w io.Writer, plan *dto.ProductionSuggestionResponse) error {
	b, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writePlanTable(w io.Writer, plan *dto.ProductionSuggestionResponse) error {
	if len(plan.Suggestions) == 0 {
		_, err := fmt.Fprintln(w, "Sin producción posible con el stock actual.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CÓDIGO\tPRODUCTO\tCANTIDAD\tVALOR UNIT.\tTOTAL")
	for _, it := range plan.Suggestions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			it.ProductCode, it.ProductName, it.QuantityToProduce,
			it.UnitValue.StringFixed(2), it.TotalItemValue.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\n", plan.TotalValue.StringFixed(2))
	return tw.Flush()
}
