package domain

// Filter returns a copy of r keeping only the experience and project entries
// whose ID is listed. A nil list keeps every entry; an empty non-nil list
// keeps none. r itself is never modified.
func Filter(r ResumeRecord, experienceIDs, projectIDs []string) ResumeRecord {
	out := r.Clone()
	if experienceIDs != nil {
		keep := idSet(experienceIDs)
		kept := make([]ExperienceEntry, 0, len(out.Experience))
		for _, e := range out.Experience {
			if _, ok := keep[e.ID]; ok {
				kept = append(kept, e)
			}
		}
		out.Experience = kept
	}
	if projectIDs != nil {
		keep := idSet(projectIDs)
		kept := make([]ProjectEntry, 0, len(out.Projects))
		for _, p := range out.Projects {
			if _, ok := keep[p.ID]; ok {
				kept = append(kept, p)
			}
		}
		out.Projects = kept
	}
	return out
}

func idSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// Clone deep-copies the record so a caller can reshape it freely.
func (r ResumeRecord) Clone() ResumeRecord {
	out := r
	out.Header.Skills = make(Skills, len(r.Header.Skills))
	for k, v := range r.Header.Skills {
		out.Header.Skills[k] = append([]string(nil), v...)
	}
	out.Education.Coursework = cloneStrings(r.Education.Coursework)

	out.Experience = make([]ExperienceEntry, len(r.Experience))
	for i, e := range r.Experience {
		e.Highlights = cloneStrings(e.Highlights)
		out.Experience[i] = e
	}
	out.Projects = make([]ProjectEntry, len(r.Projects))
	for i, p := range r.Projects {
		p.Highlights = cloneStrings(p.Highlights)
		p.Technologies = cloneStrings(p.Technologies)
		p.Award = Award{values: p.Award.Items(), list: p.Award.list}
		out.Projects[i] = p
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
