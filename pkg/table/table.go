// Package table renders listing results as aligned terminal tables.
package table

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/wbuck/azvm-manager/pkg/backup"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

const (
	NameWidth     = 40
	LocationWidth = 20
	StateWidth    = 20
)

// Table is a thin wrapper over tablewriter with the house style applied.
type Table struct {
	table *tablewriter.Table
	rows  int
}

func newTable(w io.Writer, header []string) *Table {
	if w == nil {
		w = os.Stdout
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return &Table{table: table}
}

func (t *Table) Render() {
	t.table.Render()
}

// Rows is the number of rows appended so far.
func (t *Table) Rows() int {
	return t.rows
}

func (t *Table) append(row []string, colors ...tablewriter.Colors) {
	t.rows++
	if len(colors) == 0 {
		t.table.Append(row)
		return
	}
	t.table.Rich(row, colors)
}

func NewSubscriptionTable(w io.Writer, subs []models.Subscription) *Table {
	t := newTable(w, []string{"ID", "Name", "State"})
	for _, s := range subs {
		t.append([]string{
			s.SubscriptionID,
			truncate(s.DisplayName, NameWidth),
			s.State,
		})
	}
	return t
}

func NewResourceGroupTable(w io.Writer, groups []models.ResourceGroup) *Table {
	t := newTable(w, []string{"Name", "Location", "Provisioning State"})
	for _, g := range groups {
		t.append([]string{
			truncate(g.Name, NameWidth),
			truncate(g.Location, LocationWidth),
			truncate(g.ProvisioningState, StateWidth),
		})
	}
	return t
}

// NewVMTable lists VMs with the status column coloured by power state.
// withGroup adds a resource group column for subscription wide listings.
func NewVMTable(w io.Writer, vms []models.VirtualMachine, withGroup bool) *Table {
	header := []string{"Name", "Location", "OS", "SKU", "Version", "Status"}
	if withGroup {
		header = append([]string{"Resource Group"}, header...)
	}
	t := newTable(w, header)
	for _, vm := range vms {
		row := []string{
			truncate(vm.Name, NameWidth),
			truncate(vm.Location, LocationWidth),
			vm.OS,
			vm.SKU,
			vm.Version,
			vm.PowerState,
		}
		if withGroup {
			row = append([]string{truncate(vm.ResourceGroup, NameWidth)}, row...)
		}
		colors := make([]tablewriter.Colors, len(row))
		colors[len(row)-1] = PowerStateColor(vm.PowerState)
		t.append(row, colors...)
	}
	return t
}

// PowerStateColor is red for deallocated, yellow while a transition is in
// flight and green for running VMs.
func PowerStateColor(state string) tablewriter.Colors {
	switch state {
	case models.PowerStateDeallocated, models.PowerStateStopped:
		return tablewriter.Colors{tablewriter.FgRedColor}
	case models.PowerStateDeallocating, models.PowerStateStarting, models.PowerStateStopping:
		return tablewriter.Colors{tablewriter.FgYellowColor}
	case models.PowerStateRunning:
		return tablewriter.Colors{tablewriter.FgGreenColor}
	}
	return tablewriter.Colors{}
}

// OutcomeGlyph maps an operation status to the glyph and colour of its
// outcome row. Statuses Azure may add later render as unknown.
func OutcomeGlyph(status lro.Status) (models.StatusCode, tablewriter.Colors) {
	switch {
	case !status.Known():
		return models.StatusUnknown, tablewriter.Colors{tablewriter.FgYellowColor}
	case !status.IsTerminal():
		return models.StatusRunning, tablewriter.Colors{tablewriter.FgYellowColor}
	case status.Succeeded():
		return models.StatusSucceeded, tablewriter.Colors{tablewriter.FgGreenColor}
	default:
		return models.StatusFailed, tablewriter.Colors{tablewriter.FgRedColor}
	}
}

func NewOutcomeTable(w io.Writer, outcomes []backup.Outcome) *Table {
	t := newTable(w, []string{"", "Name", "Status", "Protection State"})
	for _, o := range outcomes {
		state := ""
		if o.Item != nil {
			state = o.Item.ProtectionState
		}
		code, color := OutcomeGlyph(o.Status)
		t.append(
			[]string{string(code), truncate(o.Resource.Name, NameWidth), o.Status.String(), state},
			tablewriter.Colors{}, tablewriter.Colors{}, color, tablewriter.Colors{},
		)
	}
	return t
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
