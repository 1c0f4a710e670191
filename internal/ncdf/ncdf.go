// Package ncdf reads and writes monthly model output as NetCDF files.
//
// A scenario is a directory under the base path holding one file per
// ensemble member, named {variable}_m{NN}.nc. Every file carries time,
// lat and lon coordinate variables on the noleap model calendar.
package ncdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal/contract"
)

// Loader reads ensemble model output laid out as one file per member.
type Loader struct {
	BasePath string
}

var _ contract.EnsembleLoader = &Loader{} // Compile-time check

// NewLoader returns a loader rooted at the given base path.
func NewLoader(basePath string) *Loader {
	return &Loader{BasePath: basePath}
}

// MemberFile returns the path of one member's output file.
func (l *Loader) MemberFile(scenario string, member int, variable string) string {
	return filepath.Join(l.BasePath, scenario, fmt.Sprintf("%s_m%02d.nc", variable, member))
}

// LoadMembers reads each member file of a scenario as a member-less field.
func (l *Loader) LoadMembers(ctx context.Context, scenario string, members []int, variable string) ([]*grid.Field, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("no members requested")
	}
	fields := make([]*grid.Field, 0, len(members))
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		field, err := ReadField(l.MemberFile(scenario, member, variable), variable)
		if err != nil {
			return nil, fmt.Errorf("member %02d: %w", member, err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// LoadEnsemble reads all requested members of one scenario and stacks them
// along a new leading member dimension.
func (l *Loader) LoadEnsemble(ctx context.Context, scenario string, members []int, variable string) (*grid.Field, error) {
	fields, err := l.LoadMembers(ctx, scenario, members, variable)
	if err != nil {
		return nil, err
	}
	return grid.ConcatMembers(fields, members)
}

// LoadControl reads the member-less control climate from an explicit path.
func (l *Loader) LoadControl(ctx context.Context, path string, variable string) (*grid.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadField(path, variable)
}

// SaveEnsemble stacks per-member fields and writes them as one file at the
// base path, named {variable}{suffix}.nc. It returns the stacked field and
// the written path.
func (l *Loader) SaveEnsemble(fields []*grid.Field, members []int, variable, suffix string) (*grid.Field, string, error) {
	field, err := grid.ConcatMembers(fields, members)
	if err != nil {
		return nil, "", err
	}
	path := filepath.Join(l.BasePath, fmt.Sprintf("%s%s.nc", variable, suffix))
	if err := WriteField(field, variable, path); err != nil {
		return nil, "", err
	}
	return field, path, nil
}

// EnsembleStamp fingerprints the member files behind one ensemble from
// their sizes and modification times. A missing file stamps as empty; the
// load that follows reports the real error.
func (l *Loader) EnsembleStamp(scenario string, members []int, variable string) string {
	var sb strings.Builder
	for _, member := range members {
		info, err := os.Stat(l.MemberFile(scenario, member, variable))
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "%d:%d;", info.Size(), info.ModTime().Unix())
	}
	return sb.String()
}
