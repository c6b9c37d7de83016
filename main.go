package main

import "github.com/ADILE66/OptilifeAI-sub001/cmd/optilife"

func main() {
	optilife.Execute()
}
