// Package wordlist is a frequency-ranked word source for string suggest fields.
//
// A List implements both suggestfield.SearchHandler[string] and
// suggestfield.NewItemHandler[string]: it answers prefix queries from a
// patricia trie and learns the words users add.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/suggestfield/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrEmptyWord is returned when adding a blank word.
var ErrEmptyWord = errors.New("wordlist: empty word")

type entry struct {
	word string
	freq int
}

// List is safe for concurrent use by several fields.
type List struct {
	trie         *patricia.Trie
	limit        int
	filter       bool
	totalWords   int
	maxFrequency int
	mu           sync.RWMutex
}

// New creates an empty list returning at most limit words per query
// (0 means no limit). With filter set, queries that are only digits,
// contain special characters or repeat one letter return nothing.
func New(limit int, filter bool) *List {
	return &List{
		trie:   patricia.NewTrie(),
		limit:  limit,
		filter: filter,
	}
}

// AddWord inserts word, or updates its frequency if it is already known.
func (l *List) AddWord(word string, frequency int) {
	word = strings.TrimSpace(word)
	if word == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addLocked(word, frequency)
}

func (l *List) addLocked(word string, frequency int) {
	key := patricia.Prefix(strings.ToLower(word))
	e := &entry{word: word, freq: frequency}
	if l.trie.Insert(key, e) {
		l.totalWords++
	} else {
		l.trie.Set(key, e)
	}
	if frequency > l.maxFrequency {
		l.maxFrequency = frequency
	}
}

// Load reads "word<TAB>frequency" lines. Lines without a frequency rank
// by position, earlier lines first. Empty lines and # comments are skipped.
// maxWords caps the number of words read; 0 reads everything.
func (l *List) Load(r io.Reader, maxWords int) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	loaded := 0

	l.mu.Lock()
	defer l.mu.Unlock()
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if maxWords > 0 && loaded >= maxWords {
			break
		}

		parts := strings.Split(line, "\t")
		word := strings.TrimSpace(parts[0])
		freq := max(1000000-lineNum, 1)
		if len(parts) > 1 {
			if f, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
				freq = f
			} else {
				log.Debugf("Line %d: bad frequency %q, ranking by position", lineNum, parts[1])
			}
		}
		l.addLocked(word, freq)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading word list: %w", err)
	}
	log.Debugf("Loaded %d words, max frequency %d", loaded, l.maxFrequency)
	return nil
}

// LoadFile is Load on the named file.
func (l *List) LoadFile(path string, maxWords int) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening word list: %w", err)
	}
	defer file.Close()
	return l.Load(file, maxWords)
}

// SearchItems returns the known words starting with query, most frequent
// first, ignoring case.
func (l *List) SearchItems(query string) ([]string, error) {
	prefix := strings.ToLower(strings.TrimSpace(query))
	if prefix == "" {
		return nil, nil
	}
	if l.filter && !utils.IsValidInput(prefix) {
		log.Debugf("Query %q filtered out", query)
		return nil, nil
	}

	l.mu.RLock()
	var matches []entry
	err := l.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		matches = append(matches, *item.(*entry))
		return nil
	})
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("visiting trie subtree: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].freq != matches[j].freq {
			return matches[i].freq > matches[j].freq
		}
		return matches[i].word < matches[j].word
	})
	if len(matches) == 0 {
		return nil, nil
	}
	if l.limit > 0 && len(matches) > l.limit {
		matches = matches[:l.limit]
	}

	words := make([]string, len(matches))
	for i, m := range matches {
		words[i] = m.word
	}
	return words, nil
}

// AddNewItem learns text as a word ranked with the most frequent ones and
// returns it as the new item.
func (l *List) AddNewItem(text string) (string, error) {
	word := strings.TrimSpace(text)
	if word == "" {
		return "", ErrEmptyWord
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addLocked(word, max(l.maxFrequency, 1))
	log.Debug("Learned new word", "word", word)
	return word, nil
}

// Stats returns statistics about the loaded words.
func (l *List) Stats() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return map[string]int{
		"totalWords":   l.totalWords,
		"maxFrequency": l.maxFrequency,
	}
}
