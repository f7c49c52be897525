package planner

// summarize reports the planned modifications per file and kind.
func (p *Planner) summarize(plan *Plan) {
	nfiles := len(plan.Records)
	total := plan.TotalModifications()

	if total == 0 {
		p.log.Printf("no modifications needed across %d files", nfiles)
		return
	}

	p.log.Printf("want %d modifications across %d files:", total, nfiles)
	p.log.Printf("   file             path  flatdir  apsearch")
	p.log.Printf("   ---------------  ----  -------  --------")
	for _, rec := range plan.Records {
		p.log.Printf("   %-15s  %-4d  %-7d  %-8d",
			rec.Name, btoi(rec.NeedsPath), btoi(rec.NeedsLibPath), btoi(rec.NeedsCompletion))
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
