// Package commands holds the extra CLI commands registered on the
// PocketBase root command.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/services"
)

// SelectionFile is the JSON input of the quote command. Without an inline
// catalog the products are read from the database.
type SelectionFile struct {
	Catalog     []pricing.Product `json:"catalog,omitempty"`
	Line        pricing.Category  `json:"line"`
	Package     *SelectionItem    `json:"package,omitempty"`
	Peripherals []SelectionItem   `json:"peripherals"`
	Flags       pricing.Flags     `json:"flags"`
}

// SelectionItem names a catalog product by id or code.
type SelectionItem struct {
	ProductID string          `json:"product_id,omitempty"`
	Code      string          `json:"code,omitempty"`
	Variant   pricing.Variant `json:"variant,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
}

// QuoteResult is the priced selection.
type QuoteResult struct {
	Selection pricing.Selection        `json:"selection"`
	Breakdown pricing.Breakdown        `json:"breakdown"`
	Campaign  *pricing.CampaignPreview `json:"campaign,omitempty"`
}

// NewQuoteCommand prices a selection file without opening a session.
func NewQuoteCommand(app *pocketbase.PocketBase) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a product selection from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open selection file: %w", err)
			}
			defer f.Close()

			result, err := PriceSelection(app, f)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return writeQuote(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "selection JSON file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagRequired("file")

	return cmd
}

// PriceSelection replays a selection file through the ledger operations so
// the same caps and compatibility rules apply as in the HTTP flow.
func PriceSelection(app *pocketbase.PocketBase, r io.Reader) (*QuoteResult, error) {
	var in SelectionFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode selection file: %w", err)
	}
	if !in.Line.Valid() {
		return nil, fmt.Errorf("unknown product line %q", in.Line)
	}

	products, err := selectionCatalog(app, in)
	if err != nil {
		return nil, err
	}
	resolve := func(item SelectionItem) (pricing.Product, error) {
		for _, p := range products {
			if (item.ProductID != "" && p.ID == item.ProductID) || (item.Code != "" && p.Code == item.Code) {
				return p, nil
			}
		}
		return pricing.Product{}, fmt.Errorf("product %s%s not found in %s catalog", item.ProductID, item.Code, in.Line)
	}

	sel := pricing.NewSelection(in.Line)
	if in.Package != nil {
		p, err := resolve(*in.Package)
		if err != nil {
			return nil, err
		}
		if sel, err = sel.SelectPackage(p, in.Package.Variant); err != nil {
			return nil, fmt.Errorf("package %s: %w", p.Name, err)
		}
	}
	for _, item := range in.Peripherals {
		p, err := resolve(item)
		if err != nil {
			return nil, err
		}
		if sel, err = sel.SetPeripheralQuantity(p, item.Variant, item.Quantity); err != nil {
			return nil, fmt.Errorf("peripheral %s: %w", p.Name, err)
		}
	}

	result := &QuoteResult{
		Selection: sel,
		Breakdown: pricing.Compute(sel, in.Flags),
	}
	if in.Flags.CampaignApplied {
		preview := pricing.PreviewCampaign(result.Breakdown.SubscriptionNet)
		result.Campaign = &preview
	}
	return result, nil
}

func selectionCatalog(app *pocketbase.PocketBase, in SelectionFile) ([]pricing.Product, error) {
	if len(in.Catalog) == 0 {
		return services.LoadProducts(app, in.Line)
	}
	products := make([]pricing.Product, 0, len(in.Catalog))
	for _, p := range in.Catalog {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.Category == in.Line {
			products = append(products, p)
		}
	}
	return products, nil
}

func writeQuote(w io.Writer, r *QuoteResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	for _, l := range r.Selection.Lines() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t\n", l.DisplayName, services.VariantLabel(string(l.Variant)), l.Quantity, services.FormatTRY(l.Net()))
	}
	fmt.Fprintln(tw, "\t\t\t\t")

	b := r.Breakdown
	rows := []struct {
		label  string
		amount float64
	}{
		{"Aylık Abonelik (KDV Hariç)", b.SubscriptionNet},
		{"KDV", b.SubscriptionVAT},
		{"Aylık Toplam", b.SubscriptionTotal},
		{"Aktivasyon", b.ActivationNet},
		{"Kurulum", b.InstallationNet},
		{"Tek Seferlik Toplam", b.OneTimeFeesTotal},
		{"Genel Toplam", b.GrandTotal},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t\t\t%s\t\n", row.label, services.FormatTRY(row.amount))
	}
	if r.Campaign != nil {
		fmt.Fprintf(tw, "İlk 3 ay aylık\t\t\t%s\t\n", services.FormatTRY(r.Campaign.DiscountedTotal))
		fmt.Fprintf(tw, "Kampanya kazancı\t\t\t%s\t\n", services.FormatTRY(r.Campaign.ThreeMonthBenefit))
	}

	return tw.Flush()
}
