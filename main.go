package main

import "github.com/Sowmya0137/riskwatch/cmd/riskwatch"

func main() {
	riskwatch.Execute()
}
