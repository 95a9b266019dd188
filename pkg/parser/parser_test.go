package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_SimpleHierarchy(t *testing.T) {
	c, err := Extract(`SELECT employee_id, manager_id, LEVEL
FROM employees
START WITH manager_id IS NULL
CONNECT BY PRIOR employee_id = manager_id;`)
	require.NoError(t, err)

	assert.Equal(t, []string{"employee_id", "manager_id", "LEVEL"}, c.SelectItems)
	assert.Equal(t, "employees", c.Table)
	assert.Empty(t, c.Alias)
	assert.Equal(t, "employees", c.TableAlias())
	assert.Equal(t, "manager_id IS NULL", c.StartWith)
	assert.Equal(t, "PRIOR employee_id = manager_id", c.ConnectBy)
	assert.True(t, c.HasPrior)
	assert.True(t, c.HasLevel)
	assert.False(t, c.HasPath)
	assert.False(t, c.HasRoot)
	assert.False(t, c.HasIsLeaf)
	assert.False(t, c.HasNoCycle)
	assert.False(t, c.IsSequenceGenerator)
}

func TestExtract_AllClauses(t *testing.T) {
	c, err := Extract(`SELECT DISTINCT e.dept, COUNT(*) cnt
FROM hr.employees e
WHERE e.active = 'Y' AND LEVEL <= 3
START WITH e.manager_id IS NULL
CONNECT BY NOCYCLE PRIOR e.employee_id = e.manager_id
GROUP BY e.dept
HAVING COUNT(*) > 1
ORDER BY e.dept`)
	require.NoError(t, err)

	assert.True(t, c.Distinct)
	assert.Equal(t, []string{"e.dept", "COUNT(*) cnt"}, c.SelectItems)
	assert.Equal(t, "hr.employees", c.Table)
	assert.Equal(t, "e", c.Alias)
	assert.Equal(t, "e", c.TableAlias())
	assert.Equal(t, "e.active = 'Y' AND LEVEL <= 3", c.Where)
	assert.Equal(t, "e.manager_id IS NULL", c.StartWith)
	assert.Equal(t, "PRIOR e.employee_id = e.manager_id", c.ConnectBy)
	assert.Equal(t, "e.dept", c.GroupBy)
	assert.Equal(t, "COUNT(*) > 1", c.Having)
	assert.Equal(t, "e.dept", c.OrderBy)
	assert.True(t, c.HasNoCycle)
	assert.True(t, c.HasLevel)
}

func TestExtract_ClauseOrderAndSiblings(t *testing.T) {
	c, err := Extract(`select id, sys_connect_by_path(name, '/') path, connect_by_root id as root_id, connect_by_isleaf
from nodes n
connect by prior id = parent_id
start with parent_id is null
order siblings by name`)
	require.NoError(t, err)

	assert.Equal(t, "parent_id is null", c.StartWith)
	assert.Equal(t, "prior id = parent_id", c.ConnectBy)
	assert.Equal(t, "name", c.OrderSiblingsBy)
	assert.Empty(t, c.OrderBy)
	assert.Equal(t, "n", c.TableAlias())
	assert.True(t, c.HasPath)
	assert.True(t, c.HasRoot)
	assert.True(t, c.HasIsLeaf)
	assert.False(t, c.HasLevel)
	assert.Len(t, c.SelectItems, 4)
}

func TestExtract_AsAlias(t *testing.T) {
	c, err := Extract("SELECT id FROM nodes AS n CONNECT BY PRIOR id = pid")
	require.NoError(t, err)
	assert.Equal(t, "n", c.Alias)
	assert.Empty(t, c.StartWith)
}

func TestExtract_LevelInsideLiteralOrColumnName(t *testing.T) {
	c, err := Extract("SELECT t.level, 'LEVEL' FROM t CONNECT BY PRIOR id = pid")
	require.NoError(t, err)
	assert.False(t, c.HasLevel)
}

func TestExtract_LevelAsAlias(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"alias with AS", "SELECT name AS level FROM t CONNECT BY PRIOR id = pid", false},
		{"quoted alias", `SELECT name AS "LEVEL" FROM t CONNECT BY PRIOR id = pid`, false},
		{"pseudo-column aliased", "SELECT LEVEL AS depth FROM t CONNECT BY PRIOR id = pid", true},
		{"alias plus filter", "SELECT name AS level FROM t WHERE LEVEL <= 2 CONNECT BY PRIOR id = pid", true},
		{"alias plus ordering", "SELECT name AS level FROM t CONNECT BY PRIOR id = pid ORDER BY LEVEL", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Extract(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.HasLevel)
		})
	}
}

func TestExtract_SequenceGenerator(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		limit     string
		exclusive bool
		items     []string
		orderBy   string
	}{
		{
			name:  "literal limit",
			sql:   "SELECT LEVEL AS id FROM DUAL CONNECT BY LEVEL <= 10",
			limit: "10",
			items: []string{"LEVEL AS id"},
		},
		{
			name:  "bind variable limit",
			sql:   "SELECT LEVEL FROM dual CONNECT BY LEVEL<=:n",
			limit: ":n",
			items: []string{"LEVEL"},
		},
		{
			name:    "identifier limit with order",
			sql:     "SELECT LEVEL n, LEVEL * 2 dbl FROM DUAL CONNECT BY LEVEL <= max_rows ORDER BY n DESC",
			limit:   "max_rows",
			items:   []string{"LEVEL n", "LEVEL * 2 dbl"},
			orderBy: "n DESC",
		},
		{
			name:      "strict bound",
			sql:       "SELECT LEVEL FROM DUAL CONNECT BY LEVEL < 5",
			limit:     "5",
			exclusive: true,
			items:     []string{"LEVEL"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Extract(tt.sql)
			require.NoError(t, err)
			assert.True(t, c.IsSequenceGenerator)
			assert.Equal(t, tt.limit, c.SequenceLimit)
			assert.Equal(t, tt.exclusive, c.SequenceExclusive)
			assert.Equal(t, tt.items, c.SelectItems)
			assert.Equal(t, tt.orderBy, c.OrderBy)
		})
	}
}

func TestExtract_DualWithPriorIsNotSequence(t *testing.T) {
	c, err := Extract("SELECT LEVEL FROM DUAL CONNECT BY PRIOR x = y")
	require.NoError(t, err)
	assert.False(t, c.IsSequenceGenerator)
	assert.Equal(t, "DUAL", c.Table)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr error
	}{
		{"no connect by", "SELECT * FROM employees", ErrNotHierarchical},
		{"connect by in literal", "SELECT 'CONNECT BY' FROM t", ErrNotHierarchical},
		{"join in from", "SELECT a.id FROM a JOIN b ON a.id = b.id CONNECT BY PRIOR a.id = a.pid", ErrStructureUnrecognized},
		{"comma join", "SELECT a.id FROM a, b CONNECT BY PRIOR a.id = a.pid", ErrStructureUnrecognized},
		{"subquery source", "SELECT id FROM (SELECT * FROM t) CONNECT BY PRIOR id = pid", ErrStructureUnrecognized},
		{"leading with", "WITH x AS (SELECT 1 FROM dual) SELECT id FROM t CONNECT BY PRIOR id = pid", ErrStructureUnrecognized},
		{"nested only", "SELECT * FROM t WHERE id IN (SELECT id FROM t CONNECT BY PRIOR id = pid)", ErrStructureUnrecognized},
		{"two connect by", "SELECT id FROM t WHERE id IN (SELECT id FROM u CONNECT BY PRIOR id = pid) CONNECT BY PRIOR id = pid", ErrMultipleConnectBy},
		{"empty connect by", "SELECT id FROM t CONNECT BY", ErrStructureUnrecognized},
		{"union", "SELECT id FROM t CONNECT BY PRIOR id = pid UNION SELECT id FROM u", ErrStructureUnrecognized},
		{"reserved alias", "SELECT id FROM t START CONNECT BY PRIOR id = pid", ErrStructureUnrecognized},
		{"not a select", "UPDATE t SET x = 1 WHERE id IN (SELECT id FROM t CONNECT BY PRIOR id = pid)", ErrStructureUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.sql)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "Extract() error = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestErrMultipleConnectBy_IsStructural(t *testing.T) {
	assert.True(t, errors.Is(ErrMultipleConnectBy, ErrStructureUnrecognized))
}

func TestHasConnectBy(t *testing.T) {
	assert.True(t, HasConnectBy("select 1 from t\nconnect\tby prior a = b"))
	assert.False(t, HasConnectBy("SELECT 'connect by' FROM t"))
	assert.False(t, HasConnectBy("SELECT connect_by FROM t"))
}
