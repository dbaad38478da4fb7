// Reap - multi-cloud resource reclamation.
// List. Decide. Reclaim.
package main

import (
	// Adapter registration.
	_ "github.com/cloudreaper/reap/providers/aws"
	_ "github.com/cloudreaper/reap/providers/azure"
	_ "github.com/cloudreaper/reap/providers/gcp"
)

func main() {
	Execute()
}
