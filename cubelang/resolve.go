package cubelang

// resolve binds every call to its definition, checks arity, and rejects
// call cycles.
func (p *parser) resolve() error {
	callees := make(map[*ProcDef][]callSite)
	for _, site := range p.calls {
		def, ok := p.program.Procedures[site.call.Name]
		if !ok {
			return p.errorf(site.call.Pos, "unknown procedure %q", site.call.Name)
		}
		if len(site.call.Args) != len(def.Params) {
			return p.errorf(site.call.Pos, "%s expects %d %s, got %d",
				def.Name, len(def.Params), plural(len(def.Params), "argument"), len(site.call.Args))
		}
		if site.owner != nil {
			callees[site.owner] = append(callees[site.owner], site)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[*ProcDef]int)
	var visit func(def *ProcDef) error
	visit = func(def *ProcDef) error {
		marks[def] = visiting
		for _, site := range callees[def] {
			callee := p.program.Procedures[site.call.Name]
			switch marks[callee] {
			case visiting:
				return p.errorf(site.call.Pos, "recursive call to %q", callee.Name)
			case unvisited:
				if err := visit(callee); err != nil {
					return err
				}
			}
		}
		marks[def] = done
		return nil
	}

	// definition order keeps the reported cycle deterministic
	for _, stmt := range p.program.Statements {
		def, ok := stmt.(*ProcDef)
		if !ok || marks[def] != unvisited {
			continue
		}
		if err := visit(def); err != nil {
			return err
		}
	}

	return nil
}
