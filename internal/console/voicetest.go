package console

func (p *Printer) ModelLoading() {
	p.Println("Loading Spot Voice model...")
}

func (p *Printer) ModelLoaded() {
	p.Println("Model loaded.")
	p.Println()
	p.Rule("=", wideRule)
}

func (p *Printer) VoicePrompt(prompt string) {
	p.Printf("\n📝 %s\n\n", prompt)
}

func (p *Printer) VoiceResponse(response string) {
	p.Printf("✍️  %s\n\n", response)
	p.Rule("-", wideRule)
}

func (p *Printer) VoiceDone() {
	p.Println()
	p.Rule("=", wideRule)
	p.Println("Done!")
}
