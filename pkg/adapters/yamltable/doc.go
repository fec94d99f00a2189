// Package yamltable loads state tables and their action bindings from YAML
// or JSON files.
package yamltable
