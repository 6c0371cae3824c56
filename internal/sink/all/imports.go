// Package all wires every built-in sink backend into the sink factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the sink package. A binary that should support only a
// subset of backends can blank-import the individual packages instead.
package all

import (
	_ "stats19/internal/sink/csvfile"
	_ "stats19/internal/sink/mssql"
	_ "stats19/internal/sink/mysql"
	_ "stats19/internal/sink/postgres"
	_ "stats19/internal/sink/sqlite"
)
