package shared

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// CollectFilesByExt returns every file under roots whose extension is in
// exts, walking with an explicit stack. Directories whose name starts with
// "." are skipped. Missing or unreadable roots contribute nothing.
func CollectFilesByExt(roots []string, exts map[string]bool) []string {
	var files []string
	for _, root := range roots {
		files = append(files, collectUnder(ExpandHome(root), exts)...)
	}
	return uniqueStrings(files)
}

func collectUnder(root string, exts map[string]bool) []string {
	if root == "" {
		return nil
	}
	info, err := os.Stat(root)
	if err != nil || info == nil {
		return nil
	}
	if !info.IsDir() {
		if exts[strings.ToLower(filepath.Ext(root))] {
			return []string{root}
		}
		return nil
	}

	var files []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)
			if entry.IsDir() {
				if !strings.HasPrefix(name, ".") {
					stack = append(stack, path)
				}
				continue
			}
			if exts[strings.ToLower(filepath.Ext(name))] {
				files = append(files, path)
			}
		}
	}
	return files
}

// CollectDirs returns root and every non-hidden directory beneath it.
// Used to register filesystem watches.
func CollectDirs(root string) []string {
	root = ExpandHome(root)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil
	}

	dirs := []string{root}
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			dirs = append(dirs, path)
			stack = append(stack, path)
		}
	}
	return dirs
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, item := range in {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
