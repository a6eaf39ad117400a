package util

import (
	"os/exec"
	"runtime"
)

// browserCommand 各平台打开 URL 的命令
func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// fallbackBrowsers 默认方式失败后依次尝试的浏览器
func fallbackBrowsers(goos string) [][]string {
	switch goos {
	case "windows":
		return [][]string{{"explorer"}}
	case "linux":
		return [][]string{{"google-chrome"}, {"firefox"}, {"chromium-browser"}, {"sensible-browser"}}
	}
	return nil
}

// OpenBrowser 用系统默认浏览器打开仪表盘地址，失败时尝试常见浏览器
func OpenBrowser(url string) error {
	err := browserCommand(runtime.GOOS, url).Start()
	if err == nil {
		return nil
	}
	for _, b := range fallbackBrowsers(runtime.GOOS) {
		args := append(b[1:], url)
		if exec.Command(b[0], args...).Start() == nil {
			return nil
		}
	}
	return err
}
