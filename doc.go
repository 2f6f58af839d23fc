/*
Package kuzu provides a Go binding for the Kuzu embedded graph database, with
both a native API and a database/sql driver.

# Overview

The package loads the engine's shared library at run time (no cgo) and wraps
its C API in Go types that own their native resources:

 1. Database and Connection open the engine and run Cypher queries
 2. PreparedStatement binds named parameters from Go values, structs or maps
 3. QueryResult, Row and Value read results, including nodes, relationships,
    recursive relationships, lists, structs and maps
 4. The "kuzu" database/sql driver exposes the same engine to database/sql

Every object is closed explicitly. Closing a parent invalidates what was
borrowed from it: a Row dies when the result advances, a child Value dies with
the value or row it came from. Any access after that returns ErrDisposed.

# Native API Example

	db, err := kuzu.Open(":memory:")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	conn, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	err = conn.Exec(`CREATE NODE TABLE Person(name STRING, age INT64, PRIMARY KEY(name))`)
	if err != nil {
		log.Fatal(err)
	}

	type Person struct {
		Name string
		Age  int64
	}
	people, err := kuzu.QueryAs[Person](conn, kuzu.NamingCamelCase,
		`MATCH (p:Person) WHERE p.age > $min RETURN p.name AS name, p.age AS age`,
		map[string]any{"min": 21})

# Standard SQL API Example

	db, err := sql.Open("kuzu", "/path/to/graph")
	if err != nil {
		log.Fatal(err)
	}
	rows, err := db.Query(`MATCH (p:Person) WHERE p.age > $min RETURN p.name`, sql.Named("min", 21))

Positional parameters are rejected; name every argument.

# Library Lookup

The shared library is searched in $KUZU_LIBRARY_PATH (a file or a directory),
the working directory, the executable's directory and lib/<os>/<arch> below
the module. Config.Library names an explicit path. GetNativeInfo reports what
was found.

# Testing

Package kuzutest provides an in-memory Engine that understands a small query
subset and counts live handles, so code built on this package can be tested
without the native library.
*/
package kuzu
