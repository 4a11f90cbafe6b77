package console

import (
	"fmt"

	"spotvoice/internal/copywriter"
	"spotvoice/internal/voice"
)

func (p *Printer) CopyHeader(input string) {
	p.Rule("=", narrowRule)
	p.Println("INPUT:")
	p.Printf("\"%s\"\n", input)
	p.Rule("=", narrowRule)
	p.Println("\nSPOT VOICE OPTIONS:")
	p.Println()
}

func (p *Printer) CopyVariation(v copywriter.Variation) {
	if v.Push {
		p.Printf("[%d] Title: %s\n", v.Index, v.Title)
		p.Printf("    Body: %s\n", v.Body)
	} else {
		p.Printf("[%d] %s\n", v.Index, v.Text)
	}
	p.violations(v.Violations)
	p.Println()
}

func (p *Printer) CopyFooter() {
	p.Rule("=", narrowRule)
}

func (p *Printer) violations(vs []voice.Violation) {
	for _, v := range vs {
		fmt.Fprintln(p.w, p.muted.Render("    ! "+v.String()))
	}
}
