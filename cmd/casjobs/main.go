// Command casjobs runs queries and jobs against the CasJobs service.
// Credentials are read from CASJOBS_WSID and CASJOBS_PW.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}
