package loader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
)

type teamFixture struct {
	Employees []struct {
		Role          string `toml:"role"`
		RoleShortName string `toml:"role_short_name"`
		Profile       struct {
			Temperature float64 `toml:"temperature"`
			Goal        string  `toml:"goal"`
			Backstory   string  `toml:"backstory"`
		} `toml:"profile"`
	} `toml:"employees"`
}

// loadRoles reads team.toml. Unlike document files, a missing or broken
// team fixture aborts the load: without roles the navigator's persona
// mode cannot work at all.
func (l *Loader) loadRoles(ctx context.Context, summary *Summary) error {
	path := filepath.Join(l.dataDir, "team.toml")

	raw, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(ErrFixtureMissing, "team fixture not readable", goerr.V("path", path))
	}

	var fixture teamFixture
	if err := toml.Unmarshal(raw, &fixture); err != nil {
		return goerr.Wrap(err, "team fixture is not valid TOML", goerr.V("path", path))
	}
	if len(fixture.Employees) == 0 {
		return goerr.Wrap(ErrFixtureMissing, "team fixture has no employees", goerr.V("path", path))
	}

	for _, employee := range fixture.Employees {
		role := model.NewRole(employee.Role, employee.RoleShortName)
		role.Goal = employee.Profile.Goal
		role.Backstory = employee.Profile.Backstory
		role.Temperature = employee.Profile.Temperature

		if _, err := l.repo.Role().Upsert(ctx, role); err != nil {
			return goerr.Wrap(err, "failed to upsert role", goerr.V("shortName", employee.RoleShortName))
		}
		summary.Roles++
	}
	return nil
}
