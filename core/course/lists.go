package course

import "github.com/trezcool/academia/core"

// General

func (s Snapshot) UpdateGeneral(patch GeneralPatch) Snapshot {
	s.General = patch.apply(s.General)
	return s
}

// Objectives & Skills
//
// Both are ordered lists of strings. Blank input is ignored and values are trimmed.
// Removal matches by value, so every occurrence of a duplicated value goes at once.

func (s Snapshot) AddObjective(text string) Snapshot {
	if text = core.CleanString(text); text != "" {
		s.Objectives = appendString(s.Objectives, text)
	}
	return s
}

func (s Snapshot) RemoveObjective(text string) Snapshot {
	s.Objectives = filterString(s.Objectives, text)
	return s
}

func (s Snapshot) AddSkill(text string) Snapshot {
	if text = core.CleanString(text); text != "" {
		s.Skills = appendString(s.Skills, text)
	}
	return s
}

func (s Snapshot) RemoveSkill(text string) Snapshot {
	s.Skills = filterString(s.Skills, text)
	return s
}

func appendString(list []string, v string) []string {
	return append(list[:len(list):len(list)], v)
}

// filterString returns list unchanged when v is absent.
func filterString(list []string, v string) []string {
	var found bool
	for _, item := range list {
		if item == v {
			found = true
			break
		}
	}
	if !found {
		return list
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

// Resources

func (s Snapshot) AddResource(id, title, typ, url string) Snapshot {
	s.Resources = append(s.Resources[:len(s.Resources):len(s.Resources)], Resource{ID: id, Title: title, Type: typ, URL: url})
	return s
}

func (s Snapshot) UpdateResource(id string, patch ResourcePatch) Snapshot {
	for i, r := range s.Resources {
		if r.ID == id {
			out := append(make([]Resource, 0, len(s.Resources)), s.Resources...)
			out[i] = patch.apply(r)
			s.Resources = out
			return s
		}
	}
	return s
}

func (s Snapshot) RemoveResource(id string) Snapshot {
	for i, r := range s.Resources {
		if r.ID == id {
			out := make([]Resource, 0, len(s.Resources)-1)
			out = append(out, s.Resources[:i]...)
			s.Resources = append(out, s.Resources[i+1:]...)
			return s
		}
	}
	return s
}

// Tests

func (s Snapshot) AddTest(id, title, typ, url string) Snapshot {
	s.Tests = append(s.Tests[:len(s.Tests):len(s.Tests)], Test{ID: id, Title: title, Type: typ, URL: url})
	return s
}

func (s Snapshot) UpdateTest(id string, patch TestPatch) Snapshot {
	for i, t := range s.Tests {
		if t.ID == id {
			out := append(make([]Test, 0, len(s.Tests)), s.Tests...)
			out[i] = patch.apply(t)
			s.Tests = out
			return s
		}
	}
	return s
}

func (s Snapshot) RemoveTest(id string) Snapshot {
	for i, t := range s.Tests {
		if t.ID == id {
			out := make([]Test, 0, len(s.Tests)-1)
			out = append(out, s.Tests[:i]...)
			s.Tests = append(out, s.Tests[i+1:]...)
			return s
		}
	}
	return s
}
