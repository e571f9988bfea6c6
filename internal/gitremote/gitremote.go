// Package gitremote は Git リモートからブラウズ用のリンクを組み立てます。
// tasks の url 列で使います。
package gitremote

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/execx"
)

// DefaultRemote はリモート名が空のときに使う名前です。
const DefaultRemote = "origin"

// Info は Git リモートから抽出したホスト・オーナー・リポジトリ情報です。
type Info struct {
	Host   string
	Owner  string
	Repo   string
	Scheme string
}

// Detect は repoDir のリモート remote を解析して Info を返します。
func Detect(ctx context.Context, runner execx.Runner, repoDir, remote string) (Info, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		remote = DefaultRemote
	}
	key := "remote." + remote + ".url"
	raw, err := execx.Line(ctx, runner, repoDir, "git", "config", "--get", key)
	if err != nil {
		return Info{}, errors.Wrapf(err, "read %s", key)
	}
	return Parse(raw)
}

// Head は repoDir の HEAD のコミット SHA を返します。
func Head(ctx context.Context, runner execx.Runner, repoDir string) (string, error) {
	sha, err := execx.Line(ctx, runner, repoDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", errors.Wrap(err, "resolve HEAD")
	}
	return sha, nil
}

// Parse は remote.<name>.url の値を解析します。
// scp 形式 (user@host:owner/repo.git) は ssh URL に書き換えてから扱います。
func Parse(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Info{}, errors.New("empty remote url")
	}
	u, err := url.Parse(scpToURL(raw))
	if err != nil {
		return Info{}, errors.Wrap(err, "invalid remote url")
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	case "ssh", "git":
		scheme = ""
	default:
		return Info{}, errors.Errorf("unsupported remote url: %s", raw)
	}
	owner, repo, err := ownerRepo(u.Path)
	if err != nil {
		return Info{}, err
	}
	return Info{Host: strings.ToLower(u.Host), Owner: owner, Repo: repo, Scheme: scheme}, nil
}

// scpToURL は "user@host:path" を "ssh://user@host/path" に変換します。
// URL 形式の値はそのまま返します。
func scpToURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	at := strings.IndexByte(raw, '@')
	colon := strings.IndexByte(raw, ':')
	if at < 0 || colon < at {
		return raw
	}
	return "ssh://" + raw[:colon] + "/" + strings.TrimPrefix(raw[colon+1:], "/")
}

// ownerRepo はパスの最後の 2 要素を owner と repo として返します。
func ownerRepo(p string) (string, string, error) {
	p = strings.Trim(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"), "/")
	p = strings.TrimSuffix(p, ".git")
	dir, repo := path.Split(p)
	owner := path.Base(strings.TrimSuffix(dir, "/"))
	if repo == "" || dir == "" || owner == "" || owner == "." || owner == "/" {
		return "", "", errors.Errorf("remote url must include owner and repo: %q", p)
	}
	return owner, repo, nil
}

// NormalizedScheme はリンクに使うスキームです。http 以外は https になります。
func (i Info) NormalizedScheme() string {
	if strings.EqualFold(strings.TrimSpace(i.Scheme), "http") {
		return "http"
	}
	return "https"
}

// WebURL はリポジトリのブラウズ用ベース URL を返します。
func (i Info) WebURL() string {
	host := strings.TrimSuffix(i.Host, "/")
	return fmt.Sprintf("%s://%s/%s/%s", i.NormalizedScheme(), host, url.PathEscape(i.Owner), url.PathEscape(i.Repo))
}

// Blob は ref 時点の file の line 行目 (1 始まり) を指す URL を返します。
// Markdown は描画されないよう plain=1 を付けます。
func (i Info) Blob(ref, file string, line int) string {
	if ref == "" || file == "" || line <= 0 {
		return ""
	}
	u := fmt.Sprintf("%s/blob/%s/%s", i.WebURL(), url.PathEscape(ref), BlobPath(file))
	if isMarkdown(file) {
		u += "?plain=1"
	}
	return fmt.Sprintf("%s#L%d", u, line)
}

// BlobPath はパスの各要素をエスケープして / で連結します。
func BlobPath(file string) string {
	parts := strings.Split(filepath.ToSlash(file), "/")
	for idx, part := range parts {
		parts[idx] = url.PathEscape(part)
	}
	return path.Join(parts...)
}

func isMarkdown(file string) bool {
	lower := strings.ToLower(file)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
